package customer

import (
	"fmt"
	"sort"
	"strings"

	"foodbox_backend/pkg/models"
)

// OrderLineRequest is one requested line of a bulk order
type OrderLineRequest struct {
	BoxID    int `json:"boxId" binding:"required"`
	Quantity int `json:"quantity" binding:"required"`
}

// ValidateOrderLines checks every requested line against the loaded boxes and
// reports all problems at once: missing/unavailable boxes first, then every
// stock shortfall. No partial fulfillment — one bad line fails the batch.
func ValidateOrderLines(items []OrderLineRequest, boxes map[int]models.Box) error {
	var missing []int
	for _, item := range items {
		if _, ok := boxes[item.BoxID]; !ok {
			missing = append(missing, item.BoxID)
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		ids := make([]string, len(missing))
		for i, id := range missing {
			ids[i] = fmt.Sprintf("%d", id)
		}
		return fmt.Errorf("boxes not found or unavailable: %s", strings.Join(ids, ", "))
	}

	// Duplicate lines for the same box count against stock together
	requested := make(map[int]int, len(items))
	var order []int
	for _, item := range items {
		if _, seen := requested[item.BoxID]; !seen {
			order = append(order, item.BoxID)
		}
		requested[item.BoxID] += item.Quantity
	}

	var shortfalls []string
	for _, boxID := range order {
		box := boxes[boxID]
		if box.Quantity < requested[boxID] {
			shortfalls = append(shortfalls,
				fmt.Sprintf("insufficient stock for box %d (%s): available %d, requested %d",
					boxID, box.Title, box.Quantity, requested[boxID]))
		}
	}
	if len(shortfalls) > 0 {
		return fmt.Errorf("stock validation failed: %s", strings.Join(shortfalls, "; "))
	}

	return nil
}

// GroupLinesByRestaurant buckets order lines per restaurant for the receipt
// summary. Presentation only — atomicity is batch-wide regardless of grouping.
func GroupLinesByRestaurant(items []OrderLineRequest, boxes map[int]models.Box) map[int][]OrderLineRequest {
	groups := make(map[int][]OrderLineRequest)
	for _, item := range items {
		box := boxes[item.BoxID]
		groups[box.RestaurantID] = append(groups[box.RestaurantID], item)
	}
	return groups
}

// BatchTotal computes the total charge for a validated batch
func BatchTotal(items []OrderLineRequest, boxes map[int]models.Box) float64 {
	total := 0.0
	for _, item := range items {
		total += boxes[item.BoxID].Price * float64(item.Quantity)
	}
	return total
}
