package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/JohnGabriel1998/Seven-Apparel-sub000/controllers/cart"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/middleware"
)

func SetupCartRoutes(api *gin.RouterGroup, d Deps) {
	cart := api.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCartHandler(d.Stores, d.Log))
		cart.POST("", cartControllers.AddToCartHandler(d.Stores, d.Log))
		cart.POST("/sync", cartControllers.SyncCartHandler(d.Stores, d.Log))
		cart.PUT("/:itemID", cartControllers.UpdateCartItemHandler(d.Stores, d.Log))
		cart.DELETE("/:itemID", cartControllers.RemoveCartItemHandler(d.Stores, d.Log))
		cart.DELETE("", cartControllers.ClearCartHandler(d.Stores, d.Log))
	}
}
