package routes

import (
	"foodbox_backend/pkg/controllers/auth"
	"foodbox_backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers all authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/logout", auth.Logout)

		// Protected routes
		authGroup.GET("/me", middleware.AuthenticateToken(), auth.CheckAuth)
		authGroup.POST("/device-token", middleware.AuthenticateToken(), auth.RegisterDeviceToken)

		// 2FA for restaurant owners
		authGroup.POST("/2fa/setup", middleware.RestrictToRestaurant(), auth.Setup2FA)
		authGroup.POST("/2fa/enable", middleware.RestrictToRestaurant(), auth.Enable2FA)
	}
}
