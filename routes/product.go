package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "github.com/JohnGabriel1998/Seven-Apparel-sub000/controllers/product"
)

func SetupProductRoutes(api *gin.RouterGroup, d Deps) {
	products := api.Group("/products")
	{
		products.GET("", productControllers.GetProductsHandler(d.Stores, d.Log))
		products.GET("/featured", productControllers.GetFeaturedProductsHandler(d.Stores, d.Log))
		products.GET("/:id", productControllers.GetProductHandler(d.Stores, d.Log))
	}
}
