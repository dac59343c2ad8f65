package wishlist

import (
	"context"
	"strconv"
	"time"

	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/middleware"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 5 * time.Second

// loadWishlist returns the user's document, or an empty zero-version
// wishlist when none exists yet.
func loadWishlist(ctx context.Context, userID int) (models.Wishlist, error) {
	var wishlist models.Wishlist
	err := database.Wishlists.FindOne(ctx, bson.M{"userId": userID}).Decode(&wishlist)
	if err == mongo.ErrNoDocuments {
		return models.Wishlist{
			UserID: userID,
			Items:  []models.WishlistItem{},
		}, nil
	}
	if err != nil {
		return models.Wishlist{}, err
	}
	return wishlist, nil
}

// wishlistWriter is the slice of *mongo.Collection the CAS write needs.
type wishlistWriter interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// replaceItems writes the full item list back with a version CAS: the update
// only matches the version that was read, and bumps it. Returns false when
// the document changed underneath the caller.
func replaceItems(ctx context.Context, store wishlistWriter, wishlist models.Wishlist, items []models.WishlistItem) (bool, error) {
	now := time.Now()

	if wishlist.Version == 0 && wishlist.ID.IsZero() {
		// First write for this user; the unique index on userId makes a
		// concurrent first-write lose with a duplicate key error.
		_, err := store.UpdateOne(ctx,
			bson.M{"userId": wishlist.UserID, "version": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{
				"userId":    wishlist.UserID,
				"version":   int64(1),
				"items":     items,
				"updatedAt": now,
			}},
			options.Update().SetUpsert(true))
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}

	res, err := store.UpdateOne(ctx,
		bson.M{"userId": wishlist.UserID, "version": wishlist.Version},
		bson.M{
			"$set": bson.M{"items": items, "updatedAt": now},
			"$inc": bson.M{"version": int64(1)},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// GetWishlist returns the raw wishlist document for the current user
func GetWishlist(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), mongoTimeout)
	defer cancel()

	wishlist, err := loadWishlist(ctx, user.ID)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch wishlist")
		return
	}

	utils.SuccessResponseWithData(c, gin.H{
		"items":     wishlist.Items,
		"version":   wishlist.Version,
		"itemCount": len(wishlist.Items),
	})
}

// GetPopulatedWishlist joins the wishlist against live box data, splitting
// available and unavailable items. Items pointing at deleted boxes are
// dropped from the response.
func GetPopulatedWishlist(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), mongoTimeout)
	defer cancel()

	wishlist, err := loadWishlist(ctx, user.ID)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch wishlist")
		return
	}

	boxIDs := make([]int, 0, len(wishlist.Items))
	for _, item := range wishlist.Items {
		boxIDs = append(boxIDs, item.BoxID)
	}

	boxes := make(map[int]models.Box, len(boxIDs))
	if len(boxIDs) > 0 {
		var rows []models.Box
		if err := database.DB.Preload("Restaurant").Where("id IN ?", boxIDs).Find(&rows).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch boxes")
			return
		}
		for _, box := range rows {
			boxes[box.ID] = box
		}
	}

	available, unavailable := models.PopulateWishlistItems(wishlist.Items, boxes)

	utils.SuccessResponseWithData(c, gin.H{
		"available":   available,
		"unavailable": unavailable,
		"version":     wishlist.Version,
	})
}

// AddItem adds a box to the wishlist. Adding a box already present updates
// the existing line instead of duplicating it.
func AddItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	var req struct {
		BoxID    int             `json:"boxId" binding:"required"`
		Quantity int             `json:"quantity"`
		Priority models.Priority `json:"priority"`
		Notes    string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "boxId is required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.IsValid() {
		utils.BadRequestResponse(c, "Invalid priority")
		return
	}

	// The box must exist at add time, hidden or sold out is fine
	var box models.Box
	if err := database.DB.First(&box, req.BoxID).Error; err != nil {
		utils.NotFoundResponse(c, "Box not found")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), mongoTimeout)
	defer cancel()

	wishlist, err := loadWishlist(ctx, user.ID)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch wishlist")
		return
	}

	newItem := models.WishlistItem{
		BoxID:    req.BoxID,
		Quantity: req.Quantity,
		Priority: req.Priority,
		Notes:    req.Notes,
		AddedAt:  time.Now(),
	}

	items := wishlist.Items
	replaced := false
	for i, item := range items {
		if item.BoxID == req.BoxID {
			items[i] = newItem
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, newItem)
	}

	applied, err := replaceItems(ctx, database.Wishlists, wishlist, items)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to update wishlist")
		return
	}
	if !applied {
		utils.ConflictResponse(c, "Wishlist was modified, please retry")
		return
	}

	utils.SuccessResponse(c, gin.H{"item": newItem, "itemCount": len(items)}, "Added to wishlist")
}

// UpdateItem patches quantity, priority or notes on an existing line
func UpdateItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	boxID, err := strconv.Atoi(c.Param("boxId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box ID")
		return
	}

	var req struct {
		Quantity *int             `json:"quantity"`
		Priority *models.Priority `json:"priority"`
		Notes    *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		utils.BadRequestResponse(c, "Quantity must be positive")
		return
	}
	if req.Priority != nil && !req.Priority.IsValid() {
		utils.BadRequestResponse(c, "Invalid priority")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), mongoTimeout)
	defer cancel()

	wishlist, err := loadWishlist(ctx, user.ID)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch wishlist")
		return
	}

	found := false
	items := wishlist.Items
	for i := range items {
		if items[i].BoxID != boxID {
			continue
		}
		if req.Quantity != nil {
			items[i].Quantity = *req.Quantity
		}
		if req.Priority != nil {
			items[i].Priority = *req.Priority
		}
		if req.Notes != nil {
			items[i].Notes = *req.Notes
		}
		found = true
		break
	}
	if !found {
		utils.NotFoundResponse(c, "Item not in wishlist")
		return
	}

	applied, err := replaceItems(ctx, database.Wishlists, wishlist, items)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to update wishlist")
		return
	}
	if !applied {
		utils.ConflictResponse(c, "Wishlist was modified, please retry")
		return
	}

	utils.SuccessResponse(c, gin.H{"itemCount": len(items)}, "Wishlist updated")
}

// RemoveItem deletes a single line by boxId
func RemoveItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	boxID, err := strconv.Atoi(c.Param("boxId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), mongoTimeout)
	defer cancel()

	wishlist, err := loadWishlist(ctx, user.ID)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch wishlist")
		return
	}

	items := make([]models.WishlistItem, 0, len(wishlist.Items))
	found := false
	for _, item := range wishlist.Items {
		if item.BoxID == boxID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		utils.NotFoundResponse(c, "Item not in wishlist")
		return
	}

	applied, err := replaceItems(ctx, database.Wishlists, wishlist, items)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to update wishlist")
		return
	}
	if !applied {
		utils.ConflictResponse(c, "Wishlist was modified, please retry")
		return
	}

	utils.SuccessResponse(c, gin.H{"itemCount": len(items)}, "Removed from wishlist")
}

// ClearWishlist empties the wishlist in one write
func ClearWishlist(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), mongoTimeout)
	defer cancel()

	wishlist, err := loadWishlist(ctx, user.ID)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch wishlist")
		return
	}

	applied, err := replaceItems(ctx, database.Wishlists, wishlist, []models.WishlistItem{})
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to clear wishlist")
		return
	}
	if !applied {
		utils.ConflictResponse(c, "Wishlist was modified, please retry")
		return
	}

	utils.SuccessResponse(c, gin.H{"itemCount": 0}, "Wishlist cleared")
}

// SyncWishlist merges a client-held local wishlist (typically built while
// logged out) into the server document. Local entries win per boxId.
func SyncWishlist(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	var req struct {
		Items []models.WishlistItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	for _, item := range req.Items {
		if item.BoxID <= 0 {
			utils.BadRequestResponse(c, "Invalid boxId in items")
			return
		}
		if item.Priority != "" && !item.Priority.IsValid() {
			utils.BadRequestResponse(c, "Invalid priority in items")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), mongoTimeout)
	defer cancel()

	wishlist, err := loadWishlist(ctx, user.ID)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to fetch wishlist")
		return
	}

	merged := models.MergeWishlistItems(req.Items, wishlist.Items, time.Now())

	applied, err := replaceItems(ctx, database.Wishlists, wishlist, merged)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to sync wishlist")
		return
	}
	if !applied {
		utils.ConflictResponse(c, "Wishlist was modified, please retry")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items":     merged,
		"itemCount": len(merged),
		"version":   wishlist.Version + 1,
	}, "Wishlist synced")
}
