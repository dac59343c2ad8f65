package customer

import (
	"fmt"
	"net/http"
	"strings"

	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/middleware"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/services"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BulkOrder places one order per requested line item atomically: stock check,
// order + payment rows, stock decrement and audit log all commit or abort
// together across every restaurant in the batch.
func BulkOrder(c *gin.Context) {
	var req struct {
		Items          []OrderLineRequest `json:"items" binding:"required"`
		PaymentMethod  string             `json:"paymentMethod" binding:"required"`
		PaymentDetails *struct {
			RazorpayOrderID   string `json:"razorpay_order_id"`
			RazorpayPaymentID string `json:"razorpay_payment_id"`
			RazorpaySignature string `json:"razorpay_signature"`
		} `json:"paymentDetails"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		utils.BadRequestResponse(c, "Invalid input: items and paymentMethod are required")
		return
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			utils.BadRequestResponse(c, fmt.Sprintf("Invalid quantity for box %d: must be positive", item.BoxID))
			return
		}
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	method := models.PaymentMethod(req.PaymentMethod)

	// Online payments carry gateway details verified before any row is written
	razorpayPaymentID := ""
	if method == models.PaymentMethodRazorpay {
		if req.PaymentDetails == nil ||
			req.PaymentDetails.RazorpayOrderID == "" ||
			req.PaymentDetails.RazorpayPaymentID == "" ||
			req.PaymentDetails.RazorpaySignature == "" {
			utils.BadRequestResponse(c, "Invalid payment details for online payment")
			return
		}
		if !services.VerifyPaymentSignature(
			req.PaymentDetails.RazorpayOrderID,
			req.PaymentDetails.RazorpayPaymentID,
			req.PaymentDetails.RazorpaySignature,
		) {
			utils.BadRequestResponse(c, "Payment verification failed: invalid signature")
			return
		}
		razorpayPaymentID = req.PaymentDetails.RazorpayPaymentID
	}

	var result struct {
		Orders   []models.Order
		Payments []models.Payment
		Boxes    map[int]models.Box
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		boxIDs := make([]int, len(req.Items))
		for i, item := range req.Items {
			boxIDs[i] = item.BoxID
		}

		var boxes []models.Box
		if err := tx.
			Where(`id IN ? AND "isAvailable" = ?`, boxIDs, true).
			Preload("Restaurant").
			Find(&boxes).Error; err != nil {
			return err
		}

		boxMap := make(map[int]models.Box, len(boxes))
		for _, box := range boxes {
			boxMap[box.ID] = box
		}

		if err := ValidateOrderLines(req.Items, boxMap); err != nil {
			return err
		}

		var orderIDs []int
		for _, item := range req.Items {
			box := boxMap[item.BoxID]
			totalPrice := box.Price * float64(item.Quantity)

			order := models.Order{
				UserID:     user.ID,
				BoxID:      item.BoxID,
				Quantity:   item.Quantity,
				TotalPrice: totalPrice,
				Status:     models.OrderStatusPending,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			orderIDs = append(orderIDs, order.ID)

			// Payment step — any decline aborts the whole batch
			transactionID := razorpayPaymentID
			if method != models.PaymentMethodRazorpay {
				payResult := services.ProcessPayment(totalPrice, method)
				if !payResult.Success {
					return fmt.Errorf("payment failed: %s", payResult.Message)
				}
				transactionID = payResult.TransactionID
			}

			payment := models.Payment{
				OrderID:       order.ID,
				Amount:        totalPrice,
				Status:        models.PaymentStatusSuccess,
				Method:        method,
				TransactionID: transactionID,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}

			previousQuantity := box.Quantity
			box.Quantity -= item.Quantity
			box.ComputeAvailability()
			if err := tx.Model(&models.Box{}).Where("id = ?", box.ID).Updates(map[string]interface{}{
				"quantity":    box.Quantity,
				"isAvailable": box.IsAvailable,
			}).Error; err != nil {
				return err
			}
			boxMap[box.ID] = box

			if err := tx.Create(&models.InventoryCommand{
				BoxID:            box.ID,
				Type:             models.InventoryCommandDecrease,
				Quantity:         item.Quantity,
				PreviousQuantity: previousQuantity,
			}).Error; err != nil {
				return err
			}

			result.Payments = append(result.Payments, payment)
		}

		// Every line committed — promote the batch to CONFIRMED
		if err := tx.Model(&models.Order{}).
			Where("id IN ?", orderIDs).
			Update("status", models.OrderStatusConfirmed).Error; err != nil {
			return err
		}

		var orders []models.Order
		if err := tx.
			Where("id IN ?", orderIDs).
			Preload("Box.Restaurant").
			Preload("Payments").
			Find(&orders).Error; err != nil {
			return err
		}

		result.Orders = orders
		result.Boxes = boxMap
		return nil
	})

	if err != nil {
		status := orderErrorStatus(err)
		if status == http.StatusInternalServerError {
			utils.InternalServerErrorResponse(c, "Failed to place order")
		} else {
			utils.ErrorResponse(c, status, err.Error())
		}
		return
	}

	services.InvalidateFeedCache(c.Request.Context())
	go services.NotifyUser(user.ID, "Order confirmed",
		fmt.Sprintf("Your order of %d item(s) has been confirmed", len(result.Orders)),
		map[string]string{"type": "ORDER_CONFIRMED"})

	totalAmount := 0.0
	for _, order := range result.Orders {
		totalAmount += order.TotalPrice
	}

	// Group lines per restaurant for the receipt
	restaurantGroups := make(map[int]gin.H)
	for _, order := range result.Orders {
		restaurant := order.Box.Restaurant
		group, ok := restaurantGroups[restaurant.ID]
		if !ok {
			group = gin.H{
				"restaurantId":   restaurant.ID,
				"restaurantName": restaurant.Name,
				"orders":         []gin.H{},
				"subtotal":       0.0,
			}
		}
		group["orders"] = append(group["orders"].([]gin.H), formatOrder(order))
		group["subtotal"] = group["subtotal"].(float64) + order.TotalPrice
		restaurantGroups[restaurant.ID] = group
	}

	groups := make([]gin.H, 0, len(restaurantGroups))
	for _, group := range restaurantGroups {
		groups = append(groups, group)
	}

	utils.CreatedResponse(c, gin.H{
		"totalOrders": len(result.Orders),
		"totalAmount": totalAmount,
		"restaurants": groups,
	}, "Order placed successfully")
}

// CreateGatewayOrder creates a Razorpay order for an online checkout
func CreateGatewayOrder(c *gin.Context) {
	var req struct {
		Amount    float64 `json:"amount" binding:"required"`
		ReceiptID string  `json:"receiptId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		utils.BadRequestResponse(c, "amount and receiptId are required")
		return
	}

	body, err := services.CreateRazorpayOrder(req.Amount, "INR", req.ReceiptID)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to create gateway order")
		return
	}

	utils.SuccessResponseWithData(c, body)
}

// orderErrorStatus maps transaction errors onto HTTP statuses by the
// human-readable message, falling back to 500 for anything unrecognized.
func orderErrorStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found or unavailable"):
		return http.StatusBadRequest
	case strings.Contains(msg, "stock validation failed"):
		return http.StatusBadRequest
	case strings.Contains(msg, "payment failed"):
		return http.StatusBadRequest
	case strings.Contains(msg, "already cancelled"):
		return http.StatusBadRequest
	case strings.Contains(msg, "cannot be cancelled"):
		return http.StatusBadRequest
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func formatOrder(order models.Order) gin.H {
	var payment gin.H
	if len(order.Payments) > 0 {
		p := order.Payments[0]
		payment = gin.H{
			"id":            p.ID,
			"amount":        p.Amount,
			"status":        p.Status,
			"method":        p.Method,
			"transactionId": p.TransactionID,
		}
	}

	return gin.H{
		"id":          order.ID,
		"orderNumber": fmt.Sprintf("#ORD-%06d", order.ID),
		"boxId":       order.BoxID,
		"boxTitle":    order.Box.Title,
		"quantity":    order.Quantity,
		"totalPrice":  order.TotalPrice,
		"status":      order.Status,
		"createdAt":   order.CreatedAt,
		"payment":     payment,
	}
}
