package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/JohnGabriel1998/Seven-Apparel-sub000/controllers/payment"
)

func SetupPaymentRoutes(api *gin.RouterGroup, d Deps) {
	payments := api.Group("/payments")
	{
		// Gateway callback; authenticated by its HMAC signature, not a token.
		payments.POST("/webhook", paymentControllers.WebhookHandler(d.Stores, d.Mail, d.Bus, d.Log))
	}
}
