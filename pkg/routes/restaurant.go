package routes

import (
	"foodbox_backend/pkg/controllers/restaurant"
	"foodbox_backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRestaurantRoutes registers box management routes for owners
func RegisterRestaurantRoutes(router *gin.RouterGroup) {
	restaurantGroup := router.Group("/restaurant")
	restaurantGroup.Use(middleware.RestrictToRestaurant())
	{
		restaurantGroup.GET("/boxes", restaurant.GetMyBoxes)
		restaurantGroup.POST("/boxes/create", restaurant.CreateBox)
		restaurantGroup.PATCH("/boxes/:id", restaurant.UpdateBox)
		restaurantGroup.DELETE("/boxes/:id", restaurant.DeleteBox)
	}
}
