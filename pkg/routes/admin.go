package routes

import (
	"foodbox_backend/pkg/controllers/admin"
	"foodbox_backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers order oversight routes for admins
func RegisterAdminRoutes(router *gin.RouterGroup) {
	adminGroup := router.Group("/admin")
	adminGroup.Use(middleware.RestrictToAdmin())
	{
		adminGroup.GET("/orders", admin.GetAllOrders)
		adminGroup.GET("/orders/export", admin.ExportOrders)
		adminGroup.POST("/orders/:id/cancel", admin.CancelOrderByAdmin)
	}
}
