package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/middleware"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/services"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GetAllOrders returns every order with customer/box detail and aggregate revenue
func GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := database.DB.
		Preload("User").
		Preload("Box.Restaurant").
		Preload("Payments").
		Order(`"createdAt" DESC`).
		Find(&orders).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	totalRevenue := 0.0
	cancelled := 0
	for _, order := range orders {
		if order.IsCancelled {
			cancelled++
			continue
		}
		totalRevenue += order.TotalPrice
	}

	formatted := make([]gin.H, len(orders))
	for i, order := range orders {
		formatted[i] = gin.H{
			"id":          order.ID,
			"orderNumber": fmt.Sprintf("#ORD-%06d", order.ID),
			"customer": gin.H{
				"id":       order.User.ID,
				"username": order.User.Username,
				"email":    order.User.Email,
			},
			"box": gin.H{
				"id":         order.Box.ID,
				"title":      order.Box.Title,
				"restaurant": order.Box.Restaurant.Name,
			},
			"quantity":    order.Quantity,
			"totalPrice":  order.TotalPrice,
			"status":      order.Status,
			"isCancelled": order.IsCancelled,
			"createdAt":   order.CreatedAt,
		}
	}

	utils.SuccessResponseWithData(c, gin.H{
		"orders":       formatted,
		"totalOrders":  len(orders),
		"cancelled":    cancelled,
		"totalRevenue": totalRevenue,
	})
}

// CancelOrderByAdmin cancels any not-yet-cancelled order. The cancel record
// is upserted as approved with the acting admin stamped on it.
func CancelOrderByAdmin(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID")
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	admin, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	var cancelledOrder models.Order
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return fmt.Errorf("order not found")
		}

		// Conditional update closes the check-then-act race
		res := tx.Model(&models.Order{}).
			Where(`id = ? AND "isCancelled" = ?`, order.ID, false).
			Updates(map[string]interface{}{
				"isCancelled": true,
				"status":      models.OrderStatusCancelled,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order already cancelled")
		}

		// Upsert: a pending customer request gets approved in place
		now := time.Now()
		var cancelRecord models.CancelOrder
		err := tx.Where(`"orderId" = ?`, order.ID).First(&cancelRecord).Error
		if err == gorm.ErrRecordNotFound {
			cancelRecord = models.CancelOrder{
				OrderID:    order.ID,
				UserID:     order.UserID,
				Reason:     req.Reason,
				IsApproved: true,
				AdminID:    &admin.ID,
				ApprovedAt: &now,
			}
			if err := tx.Create(&cancelRecord).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			if err := tx.Model(&cancelRecord).Updates(map[string]interface{}{
				"isApproved": true,
				"adminId":    admin.ID,
				"approvedAt": now,
			}).Error; err != nil {
				return err
			}
		}

		// Restore stock if the box still exists
		var box models.Box
		if err := tx.First(&box, order.BoxID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				cancelledOrder = order
				return nil
			}
			return err
		}

		previousQuantity := box.Quantity
		box.Quantity += order.Quantity
		box.ComputeAvailability()

		if err := tx.Model(&models.Box{}).Where("id = ?", box.ID).Updates(map[string]interface{}{
			"quantity":    box.Quantity,
			"isAvailable": box.IsAvailable,
		}).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.InventoryCommand{
			BoxID:            box.ID,
			Type:             models.InventoryCommandIncrease,
			Quantity:         order.Quantity,
			PreviousQuantity: previousQuantity,
		}).Error; err != nil {
			return err
		}

		cancelledOrder = order
		return nil
	})

	if txErr != nil {
		switch txErr.Error() {
		case "order not found":
			utils.NotFoundResponse(c, "Order not found")
		case "order already cancelled":
			utils.BadRequestResponse(c, "Order already cancelled")
		default:
			utils.InternalServerErrorResponse(c, "Failed to cancel order")
		}
		return
	}

	services.InvalidateFeedCache(c.Request.Context())
	go services.NotifyUser(cancelledOrder.UserID, "Order cancelled",
		fmt.Sprintf("Order #ORD-%06d was cancelled by support", cancelledOrder.ID),
		map[string]string{"type": "ORDER_CANCELLED"})

	utils.SuccessResponse(c, gin.H{"orderId": orderID}, "Order cancelled successfully")
}

// ExportOrders streams every order as an xlsx download
func ExportOrders(c *gin.Context) {
	var orders []models.Order
	if err := database.DB.
		Preload("User").
		Preload("Box.Restaurant").
		Preload("Payments").
		Order(`"createdAt" DESC`).
		Find(&orders).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch orders")
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to create Excel sheet")
		return
	}

	headers := []string{
		"ID", "Customer", "Email", "Restaurant", "Box", "Quantity",
		"TotalPrice", "Status", "Cancelled", "PaymentMethod", "TransactionID", "CreatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, order := range orders {
		row := sheet.AddRow()

		row.AddCell().SetValue(order.ID)
		row.AddCell().SetValue(order.User.Username)
		row.AddCell().SetValue(order.User.Email)
		row.AddCell().SetValue(order.Box.Restaurant.Name)
		row.AddCell().SetValue(order.Box.Title)
		row.AddCell().SetValue(order.Quantity)
		row.AddCell().SetValue(order.TotalPrice)
		row.AddCell().SetValue(string(order.Status))
		row.AddCell().SetValue(order.IsCancelled)

		method := ""
		transactionID := ""
		if len(order.Payments) > 0 {
			method = string(order.Payments[0].Method)
			transactionID = order.Payments[0].TransactionID
		}
		row.AddCell().SetValue(method)
		row.AddCell().SetValue(transactionID)

		row.AddCell().SetValue(order.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to write Excel file")
	}
}
