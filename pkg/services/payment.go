package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"time"

	"foodbox_backend/pkg/config"
	"foodbox_backend/pkg/models"

	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
)

var (
	razorpayClient *razorpay.Client

	// randFloat is swapped out in tests to make the mock gateway deterministic
	randFloat = rand.Float64

	// gatewayLatency simulates the round trip to a real gateway
	gatewayLatency = 150 * time.Millisecond
)

// PaymentResult is the synchronous outcome of a payment step
type PaymentResult struct {
	Success       bool
	TransactionID string
	Message       string
}

// InitRazorpay initializes the Razorpay client
func InitRazorpay() error {
	keyID := config.AppConfig.RazorpayKeyID
	keySecret := config.AppConfig.RazorpayKeySecret

	if keyID == "" || keySecret == "" {
		fmt.Println("Warning: RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET not set")
		return nil // Don't fail init, just warn
	}

	razorpayClient = razorpay.NewClient(keyID, keySecret)
	return nil
}

// ProcessPayment runs the mock payment step for one order line. Method MOCK
// succeeds with probability 0.95; every other method succeeds unconditionally.
// Placeholder for a real gateway: no idempotency key, no retry, no webhook.
func ProcessPayment(amount float64, method models.PaymentMethod) PaymentResult {
	time.Sleep(gatewayLatency)

	transactionID := "txn_" + uuid.NewString()

	if method == models.PaymentMethodMock && randFloat() >= 0.95 {
		return PaymentResult{
			Success:       false,
			TransactionID: transactionID,
			Message:       fmt.Sprintf("mock gateway declined charge of %.2f", amount),
		}
	}

	return PaymentResult{
		Success:       true,
		TransactionID: transactionID,
	}
}

// CreateRazorpayOrder creates a gateway order for an online checkout
func CreateRazorpayOrder(amount float64, currency, receiptID string) (map[string]interface{}, error) {
	if razorpayClient == nil {
		return nil, fmt.Errorf("Razorpay client not initialized")
	}

	// Amount in paise
	amountInPaise := math.Round(amount * 100)

	data := map[string]interface{}{
		"amount":   amountInPaise,
		"currency": currency,
		"receipt":  fmt.Sprintf("receipt_%v", receiptID),
	}

	body, err := razorpayClient.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %v", err)
	}

	return body, nil
}

// VerifyPaymentSignature verifies the Razorpay payment signature
func VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	keySecret := config.AppConfig.RazorpayKeySecret
	if keySecret == "" {
		return false
	}

	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(data))
	expectedSignature := hex.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}
