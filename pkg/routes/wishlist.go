package routes

import (
	"foodbox_backend/pkg/controllers/wishlist"
	"foodbox_backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterWishlistRoutes registers wishlist routes for any authenticated user
func RegisterWishlistRoutes(router *gin.RouterGroup) {
	wishlistGroup := router.Group("/wishlist")
	wishlistGroup.Use(middleware.AuthenticateToken())
	{
		wishlistGroup.GET("", wishlist.GetWishlist)
		wishlistGroup.GET("/populated", wishlist.GetPopulatedWishlist)
		wishlistGroup.POST("", wishlist.AddItem)
		wishlistGroup.POST("/sync", wishlist.SyncWishlist)
		wishlistGroup.PATCH("/:boxId", wishlist.UpdateItem)
		wishlistGroup.DELETE("/:boxId", wishlist.RemoveItem)
		wishlistGroup.DELETE("", wishlist.ClearWishlist)
	}
}
