package routes

import (
	"github.com/gin-gonic/gin"

	eventControllers "github.com/JohnGabriel1998/Seven-Apparel-sub000/controllers/events"
)

func SetupEventRoutes(api *gin.RouterGroup, d Deps) {
	api.GET("/events", eventControllers.StreamHandler(d.Bus))
}
