package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	orderControllers "github.com/JohnGabriel1998/Seven-Apparel-sub000/controllers/order"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/events"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/payment"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/store"
)

// Deps is everything the route groups hand to their handlers.
type Deps struct {
	Stores *store.Stores
	Pay    payment.Service
	Mail   orderControllers.Mailer
	Bus    events.Bus
	Log    *zap.Logger
}

// SetupRoutes is the single entry point that wires up all /api route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	SetupProductRoutes(api, d)
	SetupCartRoutes(api, d)
	SetupOrderRoutes(api, d)
	SetupReviewRoutes(api, d)
	SetupPaymentRoutes(api, d)
	SetupEventRoutes(api, d)
}
