package models

import (
	"testing"
	"time"
)

func TestMergeWishlistItemsLocalWins(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-24 * time.Hour)

	local := []WishlistItem{
		{BoxID: 1, Quantity: 3, Priority: PriorityHigh, AddedAt: earlier},
	}
	server := []WishlistItem{
		{BoxID: 1, Quantity: 1, Priority: PriorityLow, AddedAt: earlier},
		{BoxID: 2, Quantity: 2, Priority: PriorityMedium, AddedAt: earlier},
	}

	merged := MergeWishlistItems(local, server, now)

	if len(merged) != 2 {
		t.Fatalf("expected 2 items, got %d", len(merged))
	}
	if merged[0].BoxID != 1 || merged[0].Quantity != 3 || merged[0].Priority != PriorityHigh {
		t.Errorf("local entry should win for box 1, got %+v", merged[0])
	}
	if !merged[0].AddedAt.Equal(now) {
		t.Errorf("local entry should be stamped with merge time, got %v", merged[0].AddedAt)
	}
	if merged[1].BoxID != 2 || merged[1].Quantity != 2 {
		t.Errorf("server-only entry should survive unchanged, got %+v", merged[1])
	}
	if !merged[1].AddedAt.Equal(earlier) {
		t.Errorf("server-only entry should keep its addedAt, got %v", merged[1].AddedAt)
	}
}

func TestMergeWishlistItemsDefaults(t *testing.T) {
	now := time.Now()

	merged := MergeWishlistItems([]WishlistItem{{BoxID: 5}}, nil, now)

	if len(merged) != 1 {
		t.Fatalf("expected 1 item, got %d", len(merged))
	}
	if merged[0].Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", merged[0].Quantity)
	}
	if merged[0].Priority != PriorityMedium {
		t.Errorf("expected default priority MEDIUM, got %s", merged[0].Priority)
	}
}

func TestMergeWishlistItemsEmptyLocal(t *testing.T) {
	now := time.Now()
	server := []WishlistItem{
		{BoxID: 1, Quantity: 1, Priority: PriorityLow, AddedAt: now},
		{BoxID: 2, Quantity: 2, Priority: PriorityHigh, AddedAt: now},
	}

	merged := MergeWishlistItems(nil, server, now)

	if len(merged) != 2 {
		t.Fatalf("expected server items to pass through, got %d", len(merged))
	}
}

func TestPopulateWishlistItemsPartition(t *testing.T) {
	now := time.Now()
	items := []WishlistItem{
		{BoxID: 1, Quantity: 1, Priority: PriorityLow, AddedAt: now},
		{BoxID: 2, Quantity: 1, Priority: PriorityHigh, AddedAt: now},
		{BoxID: 3, Quantity: 1, Priority: PriorityMedium, AddedAt: now},
		{BoxID: 99, Quantity: 1, Priority: PriorityHigh, AddedAt: now}, // deleted box
	}
	boxes := map[int]Box{
		1: {ID: 1, Title: "A", Quantity: 5, IsAvailable: true},
		2: {ID: 2, Title: "B", Quantity: 0, IsAvailable: false},
		3: {ID: 3, Title: "C", Quantity: 2, IsAvailable: true},
	}

	available, unavailable := PopulateWishlistItems(items, boxes)

	if len(available) != 2 {
		t.Fatalf("expected 2 available items, got %d", len(available))
	}
	if len(unavailable) != 1 {
		t.Fatalf("expected 1 unavailable item, got %d", len(unavailable))
	}
	for _, item := range append(available, unavailable...) {
		if item.BoxID == 99 {
			t.Error("orphaned item should be dropped")
		}
	}
}

func TestPopulateWishlistItemsSort(t *testing.T) {
	now := time.Now()
	items := []WishlistItem{
		{BoxID: 1, Priority: PriorityLow, AddedAt: now},
		{BoxID: 2, Priority: PriorityHigh, AddedAt: now.Add(-time.Hour)},
		{BoxID: 3, Priority: PriorityHigh, AddedAt: now},
		{BoxID: 4, Priority: PriorityMedium, AddedAt: now},
	}
	boxes := map[int]Box{
		1: {ID: 1, IsAvailable: true},
		2: {ID: 2, IsAvailable: true},
		3: {ID: 3, IsAvailable: true},
		4: {ID: 4, IsAvailable: true},
	}

	available, _ := PopulateWishlistItems(items, boxes)

	wantOrder := []int{3, 2, 4, 1} // priority desc, ties newest first
	if len(available) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(available))
	}
	for i, want := range wantOrder {
		if available[i].BoxID != want {
			t.Errorf("position %d: expected box %d, got %d", i, want, available[i].BoxID)
		}
	}
}

func TestComputeAvailability(t *testing.T) {
	cases := []struct {
		quantity int
		isHidden bool
		want     bool
	}{
		{5, false, true},
		{0, false, false},
		{5, true, false},
		{0, true, false},
	}

	for _, tc := range cases {
		box := Box{Quantity: tc.quantity, IsHidden: tc.isHidden}
		box.ComputeAvailability()
		if box.IsAvailable != tc.want {
			t.Errorf("quantity=%d hidden=%v: expected isAvailable=%v, got %v",
				tc.quantity, tc.isHidden, tc.want, box.IsAvailable)
		}
	}
}
