package routes

import (
	"foodbox_backend/pkg/controllers/customer"
	"foodbox_backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes registers the order routes for customers
func RegisterCustomerRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	orderGroup.Use(middleware.RestrictToCustomer())
	{
		orderGroup.POST("/bulk", customer.BulkOrder)
		orderGroup.GET("/me", customer.GetMyOrders)
		orderGroup.POST("/:id/cancel", customer.CancelMyOrder)

		// Online payment
		orderGroup.POST("/gateway-order", customer.CreateGatewayOrder)
	}
}
