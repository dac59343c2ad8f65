package customer

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/middleware"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/services"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderGroup is a restaurant+date+status bucket of a customer's orders
type OrderGroup struct {
	RestaurantID   int                `json:"restaurantId"`
	RestaurantName string             `json:"restaurantName"`
	Date           string             `json:"date"`
	Status         models.OrderStatus `json:"status"`
	Orders         []models.Order     `json:"orders"`
	TotalAmount    float64            `json:"totalAmount"`
}

// GroupOrders buckets orders by restaurant, creation date, and status,
// newest buckets first.
func GroupOrders(orders []models.Order) []OrderGroup {
	type key struct {
		restaurantID int
		date         string
		status       models.OrderStatus
	}

	buckets := make(map[key]*OrderGroup)
	var keys []key

	for _, order := range orders {
		k := key{
			restaurantID: order.Box.RestaurantID,
			date:         order.CreatedAt.Format("2006-01-02"),
			status:       order.Status,
		}
		group, ok := buckets[k]
		if !ok {
			group = &OrderGroup{
				RestaurantID:   order.Box.RestaurantID,
				RestaurantName: order.Box.Restaurant.Name,
				Date:           k.date,
				Status:         order.Status,
			}
			buckets[k] = group
			keys = append(keys, k)
		}
		group.Orders = append(group.Orders, order)
		group.TotalAmount += order.TotalPrice
	}

	groups := make([]OrderGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, *buckets[k])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})

	return groups
}

// GetMyOrders returns the customer's orders grouped by restaurant, date, and
// status, with per-status summary counts.
func GetMyOrders(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	var orders []models.Order
	if err := database.DB.
		Where(`"userId" = ?`, user.ID).
		Preload("Box.Restaurant").
		Preload("Payments").
		Order(`"createdAt" DESC`).
		Find(&orders).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	summary := make(map[models.OrderStatus]int)
	for _, order := range orders {
		summary[order.Status]++
	}

	utils.SuccessResponseWithData(c, gin.H{
		"groups":      GroupOrders(orders),
		"summary":     summary,
		"totalOrders": len(orders),
	})
}

// validateCancelable is the customer-side cancellation precondition: the
// order must not be cancelled already and must still be PENDING or CONFIRMED.
func validateCancelable(order models.Order) error {
	if order.IsCancelled {
		return fmt.Errorf("order already cancelled")
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return fmt.Errorf("order in status %s cannot be cancelled", order.Status)
	}
	return nil
}

// CancelMyOrder handles a customer cancellation request. Only PENDING and
// CONFIRMED orders qualify; the already-cancelled check runs as a conditional
// update inside the transaction so two concurrent cancels cannot both restore
// stock.
func CancelMyOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID")
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	// Reason is optional; an empty body is fine
	_ = c.ShouldBindJSON(&req)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where(`id = ? AND "userId" = ?`, orderID, user.ID).First(&order).Error; err != nil {
			return fmt.Errorf("order not found")
		}

		if err := validateCancelable(order); err != nil {
			return err
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

		if err := tx.Create(&models.CancelOrder{
			OrderID:    order.ID,
			UserID:     user.ID,
			Reason:     req.Reason,
			IsApproved: false, // awaiting admin review
		}).Error; err != nil {
			return err
		}

		return restoreBoxStock(tx, order)
	})

	if txErr != nil {
		status := orderErrorStatus(txErr)
		if status == http.StatusInternalServerError {
			utils.InternalServerErrorResponse(c, "Failed to cancel order")
		} else {
			utils.ErrorResponse(c, status, txErr.Error())
		}
		return
	}

	services.InvalidateFeedCache(c.Request.Context())

	utils.SuccessResponse(c, gin.H{"orderId": orderID}, "Order cancelled; cancellation request awaiting review")
}

// restoreBoxStock returns a cancelled order's quantity to its box and logs
// the inventory restoration. The box may have been deleted since the order
// was placed; that is not an error.
func restoreBoxStock(tx *gorm.DB, order models.Order) error {
	var box models.Box
	if err := tx.First(&box, order.BoxID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
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

	return tx.Create(&models.InventoryCommand{
		BoxID:            box.ID,
		Type:             models.InventoryCommandIncrease,
		Quantity:         order.Quantity,
		PreviousQuantity: previousQuantity,
	}).Error
}
