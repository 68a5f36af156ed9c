package routes

import (
	"github.com/gin-gonic/gin"

	reviewControllers "github.com/JohnGabriel1998/Seven-Apparel-sub000/controllers/review"
	"github.com/JohnGabriel1998/Seven-Apparel-sub000/middleware"
)

func SetupReviewRoutes(api *gin.RouterGroup, d Deps) {
	reviews := api.Group("/reviews")
	{
		reviews.GET("/product/:id", reviewControllers.ListProductReviewsHandler(d.Stores, d.Log))

		authed := reviews.Group("")
		authed.Use(middleware.ValidateToken)
		{
			authed.POST("/product/:id", reviewControllers.CreateReviewHandler(d.Stores, d.Log))
			authed.PUT("/:reviewID", reviewControllers.UpdateReviewHandler(d.Stores, d.Log))
			authed.DELETE("/:reviewID", reviewControllers.DeleteReviewHandler(d.Stores, d.Log))
			authed.POST("/:reviewID/helpful", reviewControllers.MarkHelpfulHandler(d.Stores, d.Log))
		}
	}
}
