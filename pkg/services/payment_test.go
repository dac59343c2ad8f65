package services

import (
	"strings"
	"testing"
	"time"

	"foodbox_backend/pkg/config"
	"foodbox_backend/pkg/models"
)

func stubGateway(t *testing.T, value float64) {
	t.Helper()
	prevRand, prevLatency := randFloat, gatewayLatency
	randFloat = func() float64 { return value }
	gatewayLatency = 0
	t.Cleanup(func() {
		randFloat, gatewayLatency = prevRand, prevLatency
	})
}

func TestProcessPaymentMockSuccess(t *testing.T) {
	stubGateway(t, 0.5)

	result := ProcessPayment(19.99, models.PaymentMethodMock)

	if !result.Success {
		t.Fatalf("expected success below the failure threshold, got %+v", result)
	}
	if !strings.HasPrefix(result.TransactionID, "txn_") {
		t.Errorf("expected txn_ transaction id, got %q", result.TransactionID)
	}
}

func TestProcessPaymentMockDecline(t *testing.T) {
	stubGateway(t, 0.95) // threshold is inclusive on the failure side

	result := ProcessPayment(19.99, models.PaymentMethodMock)

	if result.Success {
		t.Fatal("expected decline at the failure threshold")
	}
	if result.TransactionID == "" {
		t.Error("declined payments still carry a transaction id")
	}
	if !strings.Contains(result.Message, "declined") {
		t.Errorf("expected decline message, got %q", result.Message)
	}
}

func TestProcessPaymentNonMockAlwaysSucceeds(t *testing.T) {
	stubGateway(t, 0.99) // would decline MOCK

	for _, method := range []models.PaymentMethod{
		models.PaymentMethodCard,
		models.PaymentMethodCash,
		models.PaymentMethodRazorpay,
	} {
		result := ProcessPayment(10, method)
		if !result.Success {
			t.Errorf("method %s should never be declined, got %+v", method, result)
		}
	}
}

func TestProcessPaymentUniqueTransactionIDs(t *testing.T) {
	stubGateway(t, 0)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		result := ProcessPayment(5, models.PaymentMethodMock)
		if seen[result.TransactionID] {
			t.Fatalf("duplicate transaction id %q", result.TransactionID)
		}
		seen[result.TransactionID] = true
	}
}

func TestProcessPaymentHonorsLatency(t *testing.T) {
	stubGateway(t, 0)
	gatewayLatency = 10 * time.Millisecond

	start := time.Now()
	ProcessPayment(5, models.PaymentMethodMock)

	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("expected at least the configured latency, took %v", elapsed)
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	config.AppConfig = &config.Config{RazorpayKeySecret: "test-secret"}

	// HMAC-SHA256("order_1|pay_1", "test-secret")
	valid := "ba2a3986f33d5a6e148e445a747b407633361cc2fbc1d2faadd70ca5e101984e"

	if !VerifyPaymentSignature("order_1", "pay_1", valid) {
		t.Error("expected valid signature to verify")
	}
	if VerifyPaymentSignature("order_1", "pay_1", "deadbeef") {
		t.Error("expected bad signature to fail")
	}
	if VerifyPaymentSignature("order_2", "pay_1", valid) {
		t.Error("expected signature for a different order to fail")
	}

	config.AppConfig.RazorpayKeySecret = ""
	if VerifyPaymentSignature("order_1", "pay_1", valid) {
		t.Error("expected verification to fail without a configured secret")
	}
}
