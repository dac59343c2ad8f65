package customer

import (
	"strings"
	"testing"
	"time"

	"foodbox_backend/pkg/models"
)

func testBoxes() map[int]models.Box {
	return map[int]models.Box{
		1: {ID: 1, Title: "Veggie Box", Price: 5.99, Quantity: 10, RestaurantID: 1},
		2: {ID: 2, Title: "Pasta Box", Price: 7.25, Quantity: 2, RestaurantID: 2},
		3: {ID: 3, Title: "Soup Box", Price: 4.50, Quantity: 0, RestaurantID: 1},
	}
}

func TestValidateOrderLinesOK(t *testing.T) {
	items := []OrderLineRequest{
		{BoxID: 1, Quantity: 3},
		{BoxID: 2, Quantity: 2},
	}

	if err := ValidateOrderLines(items, testBoxes()); err != nil {
		t.Fatalf("expected batch to validate: %v", err)
	}
}

func TestValidateOrderLinesMissingBoxes(t *testing.T) {
	items := []OrderLineRequest{
		{BoxID: 99, Quantity: 1},
		{BoxID: 1, Quantity: 1},
		{BoxID: 42, Quantity: 1},
	}

	err := ValidateOrderLines(items, testBoxes())
	if err == nil {
		t.Fatal("expected error for unknown boxes")
	}
	// Missing ids reported together, sorted
	if got := err.Error(); got != "boxes not found or unavailable: 42, 99" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestValidateOrderLinesAggregatesShortfalls(t *testing.T) {
	items := []OrderLineRequest{
		{BoxID: 1, Quantity: 11},
		{BoxID: 2, Quantity: 5},
	}

	err := ValidateOrderLines(items, testBoxes())
	if err == nil {
		t.Fatal("expected stock validation error")
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "stock validation failed: ") {
		t.Errorf("unexpected prefix: %q", msg)
	}
	if !strings.Contains(msg, "insufficient stock for box 1 (Veggie Box): available 10, requested 11") {
		t.Errorf("first shortfall missing from %q", msg)
	}
	if !strings.Contains(msg, "insufficient stock for box 2 (Pasta Box): available 2, requested 5") {
		t.Errorf("second shortfall missing from %q", msg)
	}
}

func TestValidateOrderLinesDuplicateLinesShareStock(t *testing.T) {
	// Two lines for box 2 (stock 2) individually fit but together exceed stock
	items := []OrderLineRequest{
		{BoxID: 2, Quantity: 2},
		{BoxID: 2, Quantity: 2},
	}

	err := ValidateOrderLines(items, testBoxes())
	if err == nil {
		t.Fatal("expected duplicate lines exceeding combined stock to fail")
	}
	if !strings.Contains(err.Error(), "insufficient stock for box 2 (Pasta Box): available 2, requested 4") {
		t.Errorf("expected combined requested quantity in message, got %q", err.Error())
	}
}

func TestValidateOrderLinesDuplicateLinesWithinStock(t *testing.T) {
	items := []OrderLineRequest{
		{BoxID: 1, Quantity: 4},
		{BoxID: 1, Quantity: 6},
	}

	if err := ValidateOrderLines(items, testBoxes()); err != nil {
		t.Fatalf("duplicate lines summing to available stock should pass: %v", err)
	}
}

func TestValidateOrderLinesMissingReportedBeforeStock(t *testing.T) {
	items := []OrderLineRequest{
		{BoxID: 99, Quantity: 1},
		{BoxID: 1, Quantity: 100},
	}

	err := ValidateOrderLines(items, testBoxes())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "boxes not found or unavailable") {
		t.Errorf("missing boxes should be reported first, got %q", err.Error())
	}
}

func TestGroupLinesByRestaurant(t *testing.T) {
	items := []OrderLineRequest{
		{BoxID: 1, Quantity: 1},
		{BoxID: 2, Quantity: 2},
		{BoxID: 3, Quantity: 1},
	}

	groups := GroupLinesByRestaurant(items, testBoxes())

	if len(groups) != 2 {
		t.Fatalf("expected 2 restaurant groups, got %d", len(groups))
	}
	if len(groups[1]) != 2 {
		t.Errorf("expected 2 lines for restaurant 1, got %d", len(groups[1]))
	}
	if len(groups[2]) != 1 {
		t.Errorf("expected 1 line for restaurant 2, got %d", len(groups[2]))
	}
}

func TestBatchTotal(t *testing.T) {
	items := []OrderLineRequest{
		{BoxID: 1, Quantity: 2}, // 11.98
		{BoxID: 2, Quantity: 1}, // 7.25
	}

	total := BatchTotal(items, testBoxes())
	if diff := total - 19.23; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("expected total 19.23, got %.4f", total)
	}
}

func TestGroupOrders(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	box := func(restaurantID int, name string) models.Box {
		return models.Box{
			RestaurantID: restaurantID,
			Restaurant:   models.Restaurant{ID: restaurantID, Name: name},
		}
	}

	orders := []models.Order{
		{ID: 1, TotalPrice: 10, Status: models.OrderStatusConfirmed, CreatedAt: day1, Box: box(1, "Green Bowl")},
		{ID: 2, TotalPrice: 5, Status: models.OrderStatusConfirmed, CreatedAt: day1, Box: box(1, "Green Bowl")},
		{ID: 3, TotalPrice: 7, Status: models.OrderStatusCancelled, CreatedAt: day1, Box: box(1, "Green Bowl")},
		{ID: 4, TotalPrice: 8, Status: models.OrderStatusConfirmed, CreatedAt: day2, Box: box(2, "La Cucina")},
	}

	groups := GroupOrders(orders)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Newest date first
	if groups[0].Date != "2025-03-02" {
		t.Errorf("expected newest group first, got %s", groups[0].Date)
	}

	for _, g := range groups {
		if g.RestaurantID == 1 && g.Status == models.OrderStatusConfirmed {
			if len(g.Orders) != 2 {
				t.Errorf("expected 2 confirmed orders for restaurant 1, got %d", len(g.Orders))
			}
			if g.TotalAmount != 15 {
				t.Errorf("expected totalAmount 15, got %.2f", g.TotalAmount)
			}
			if g.RestaurantName != "Green Bowl" {
				t.Errorf("unexpected restaurant name %q", g.RestaurantName)
			}
		}
	}
}

func TestGroupOrdersEmpty(t *testing.T) {
	if groups := GroupOrders(nil); len(groups) != 0 {
		t.Errorf("expected no groups for no orders, got %d", len(groups))
	}
}
