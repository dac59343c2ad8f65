package wishlist

import (
	"context"
	"testing"
	"time"

	"foodbox_backend/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeWishlistWriter struct {
	filter bson.M
	update bson.M
	upsert bool

	matched int64
	err     error
}

func (f *fakeWishlistWriter) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.filter = filter.(bson.M)
	f.update = update.(bson.M)
	for _, o := range opts {
		if o.Upsert != nil {
			f.upsert = *o.Upsert
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &mongo.UpdateResult{MatchedCount: f.matched}, nil
}

func existingWishlist(version int64) models.Wishlist {
	return models.Wishlist{
		ID:      primitive.NewObjectID(),
		UserID:  7,
		Version: version,
		Items:   []models.WishlistItem{{BoxID: 1, Quantity: 1, AddedAt: time.Now()}},
	}
}

func TestReplaceItemsFiltersOnReadVersion(t *testing.T) {
	store := &fakeWishlistWriter{matched: 1}

	applied, err := replaceItems(context.Background(), store, existingWishlist(3), nil)
	if err != nil {
		t.Fatalf("replaceItems: %v", err)
	}
	if !applied {
		t.Fatal("expected write to apply when the version still matches")
	}

	if store.filter["userId"] != 7 {
		t.Errorf("filter must scope to the user, got %v", store.filter)
	}
	if store.filter["version"] != int64(3) {
		t.Errorf("filter must pin the version that was read, got %v", store.filter["version"])
	}
	inc, ok := store.update["$inc"].(bson.M)
	if !ok || inc["version"] != int64(1) {
		t.Errorf("update must bump the version, got %v", store.update)
	}
}

func TestReplaceItemsRejectsStaleVersion(t *testing.T) {
	// A concurrent writer bumped the document; the pinned filter matches nothing
	store := &fakeWishlistWriter{matched: 0}

	applied, err := replaceItems(context.Background(), store, existingWishlist(3), nil)
	if err != nil {
		t.Fatalf("replaceItems: %v", err)
	}
	if applied {
		t.Fatal("a write against a stale version must not apply")
	}
}

func TestReplaceItemsFirstWriteUpserts(t *testing.T) {
	store := &fakeWishlistWriter{}
	fresh := models.Wishlist{UserID: 7, Items: []models.WishlistItem{}}

	applied, err := replaceItems(context.Background(), store, fresh, nil)
	if err != nil {
		t.Fatalf("replaceItems: %v", err)
	}
	if !applied {
		t.Fatal("expected first write to apply")
	}
	if !store.upsert {
		t.Error("first write must upsert")
	}
	if _, ok := store.filter["version"].(bson.M); !ok {
		t.Errorf("first write must only match a document without a version, got %v", store.filter)
	}
}

func TestReplaceItemsFirstWriteLosesRace(t *testing.T) {
	// A concurrent first write already created the document; the unique
	// userId index rejects the second upsert
	store := &fakeWishlistWriter{
		err: mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}},
	}
	fresh := models.Wishlist{UserID: 7}

	applied, err := replaceItems(context.Background(), store, fresh, nil)
	if err != nil {
		t.Fatalf("a lost first-write race is a conflict, not an error: %v", err)
	}
	if applied {
		t.Fatal("the losing first write must not report as applied")
	}
}
