package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/JohnGabriel1998/Seven-Apparel-sub000/controllers/order"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/middleware"
)

func SetupOrderRoutes(api *gin.RouterGroup, d Deps) {
	orders := api.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Checkout
		orders.POST("", orderControllers.CreateOrderHandler(d.Stores, d.Pay, d.Mail, d.Bus, d.Log))

		// Customer views
		orders.GET("/mine", orderControllers.GetMyOrdersHandler(d.Stores, d.Log))
		orders.GET("/:orderID", orderControllers.GetOrderHandler(d.Stores, d.Log))
		orders.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(d.Stores, d.Bus, d.Log))

		// Back office
		admin := orders.Group("")
		admin.Use(middleware.RequireAdmin)
		{
			admin.GET("", orderControllers.GetAllOrdersHandler(d.Stores, d.Log))
			admin.GET("/export", orderControllers.ExportOrdersHandler(d.Stores, d.Log))
			admin.GET("/ws", orderControllers.OrderSocketHandler(d.Bus))
			admin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.Stores, d.Bus, d.Log))
			admin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(d.Stores, d.Log))
		}
	}
}
