package routes

import (
	"foodbox_backend/pkg/controllers/public"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the unauthenticated browse routes
func RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/feed", public.GetFeed)

	router.GET("/boxes", public.GetBoxes)
	router.POST("/boxes/by-ids", public.GetBoxesByIDs)

	router.GET("/restaurants", public.GetRestaurants)
	router.GET("/restaurants/:id", public.GetRestaurant)
}
