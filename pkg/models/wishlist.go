package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem is an embedded line in a Wishlist document. BoxID is a loose
// reference into the relational Box table — not foreign-key enforced.
type WishlistItem struct {
	BoxID    int       `bson:"boxId" json:"boxId"`
	Quantity int       `bson:"quantity" json:"quantity"`
	Priority Priority  `bson:"priority" json:"priority"`
	Notes    string    `bson:"notes,omitempty" json:"notes,omitempty"`
	AddedAt  time.Time `bson:"addedAt" json:"addedAt"`
}

// Wishlist is the one-per-user document. Version guards full-document
// replaces: every write filters on the version it read and bumps it.
type Wishlist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    int                `bson:"userId" json:"userId"`
	Version   int64              `bson:"version" json:"version"`
	Items     []WishlistItem     `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MergeWishlistItems merges a client-held local item list with the server
// items. Local wins per boxId (stamped with a fresh addedAt); server items
// whose boxId is absent from the local set are appended unchanged.
func MergeWishlistItems(local, server []WishlistItem, now time.Time) []WishlistItem {
	localIDs := make(map[int]bool, len(local))
	merged := make([]WishlistItem, 0, len(local)+len(server))

	for _, item := range local {
		item.AddedAt = now
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if item.Priority == "" {
			item.Priority = PriorityMedium
		}
		merged = append(merged, item)
		localIDs[item.BoxID] = true
	}

	for _, item := range server {
		if !localIDs[item.BoxID] {
			merged = append(merged, item)
		}
	}

	return merged
}

// PopulatedWishlistItem is a wishlist line joined against live box data
type PopulatedWishlistItem struct {
	WishlistItem
	Box        Box        `json:"box"`
	Restaurant Restaurant `json:"restaurant"`
}

// PopulateWishlistItems joins items against the loaded boxes, silently
// dropping items whose box no longer exists, and partitions the result into
// available/unavailable groups. Both groups come back sorted by priority
// (high first), ties broken by most recent addedAt.
func PopulateWishlistItems(items []WishlistItem, boxes map[int]Box) (available, unavailable []PopulatedWishlistItem) {
	for _, item := range items {
		box, ok := boxes[item.BoxID]
		if !ok {
			continue // orphaned reference, dropped at read time
		}
		populated := PopulatedWishlistItem{
			WishlistItem: item,
			Box:          box,
			Restaurant:   box.Restaurant,
		}
		if box.IsAvailable {
			available = append(available, populated)
		} else {
			unavailable = append(unavailable, populated)
		}
	}

	sortPopulated(available)
	sortPopulated(unavailable)
	return available, unavailable
}

func sortPopulated(items []PopulatedWishlistItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := priorityRank(items[i].Priority), priorityRank(items[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return items[i].AddedAt.After(items[j].AddedAt)
	})
}
