package customer

import (
	"errors"
	"net/http"
	"testing"

	"foodbox_backend/pkg/models"
)

func TestValidateCancelable(t *testing.T) {
	cases := []struct {
		name    string
		order   models.Order
		wantErr string
	}{
		{"pending", models.Order{Status: models.OrderStatusPending}, ""},
		{"confirmed", models.Order{Status: models.OrderStatusConfirmed}, ""},
		{"preparing", models.Order{Status: models.OrderStatusPreparing}, "order in status PREPARING cannot be cancelled"},
		{"delivered", models.Order{Status: models.OrderStatusDelivered}, "order in status DELIVERED cannot be cancelled"},
		{"second cancel", models.Order{Status: models.OrderStatusCancelled, IsCancelled: true}, "order already cancelled"},
		// A concurrent cancel may have flipped the flag before the status moved
		{"flagged but still pending", models.Order{Status: models.OrderStatusPending, IsCancelled: true}, "order already cancelled"},
	}

	for _, tc := range cases {
		err := validateCancelable(tc.order)
		if tc.wantErr == "" {
			if err != nil {
				t.Errorf("%s: expected cancellable, got %v", tc.name, err)
			}
			continue
		}
		if err == nil || err.Error() != tc.wantErr {
			t.Errorf("%s: expected %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestOrderErrorStatus(t *testing.T) {
	cases := []struct {
		msg  string
		want int
	}{
		{"boxes not found or unavailable: 4, 9", http.StatusBadRequest},
		{"stock validation failed: insufficient stock for box 1 (X): available 1, requested 2", http.StatusBadRequest},
		{"payment failed: mock gateway declined charge of 9.99", http.StatusBadRequest},
		{"order already cancelled", http.StatusBadRequest},
		{"order in status DELIVERED cannot be cancelled", http.StatusBadRequest},
		{"order not found", http.StatusNotFound},
		{"driver: bad connection", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := orderErrorStatus(errors.New(tc.msg)); got != tc.want {
			t.Errorf("%q: expected %d, got %d", tc.msg, tc.want, got)
		}
	}
}
