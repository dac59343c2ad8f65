package public

import (
	"encoding/json"
	"net/http"
	"strconv"

	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/services"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetFeed returns the paginated public feed of boxes, split into available and
// sold-out groups with a restaurant summary per box. Pages are cached in Redis
// for a short TTL; any box mutation invalidates the whole feed cache.
func GetFeed(c *gin.Context) {
	search := c.Query("search")
	restaurantFilter := c.Query("restaurant")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	// Serve from cache when possible
	if cached := services.GetCachedFeedPage(c.Request.Context(), search, restaurantFilter, page, limit); cached != "" {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	query := database.DB.Model(&models.Box{}).Where(`"isHidden" = ?`, false)

	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if restaurantFilter != "" {
		if restaurantID, err := strconv.Atoi(restaurantFilter); err == nil {
			query = query.Where(`"restaurantId" = ?`, restaurantID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	var boxes []models.Box
	if err := query.
		Preload("Restaurant").
		Order(`"isAvailable" DESC, "createdAt" DESC`).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&boxes).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	var available, soldOut []gin.H
	for _, box := range boxes {
		entry := formatFeedBox(box)
		if box.IsAvailable {
			available = append(available, entry)
		} else {
			soldOut = append(soldOut, entry)
		}
	}
	if available == nil {
		available = []gin.H{}
	}
	if soldOut == nil {
		soldOut = []gin.H{}
	}

	response := utils.StandardResponse{
		Success: true,
		Data: gin.H{
			"available": available,
			"soldOut":   soldOut,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": (total + int64(limit) - 1) / int64(limit),
			},
		},
	}

	if payload, err := json.Marshal(response); err == nil {
		services.CacheFeedPage(c.Request.Context(), search, restaurantFilter, page, limit, string(payload))
	}

	c.JSON(http.StatusOK, response)
}

func formatFeedBox(box models.Box) gin.H {
	imageURL := ""
	if box.ImageURL != nil {
		imageURL = services.BoxImageURL(*box.ImageURL)
	}

	return gin.H{
		"id":          box.ID,
		"title":       box.Title,
		"description": box.Description,
		"price":       box.Price,
		"quantity":    box.Quantity,
		"imageUrl":    imageURL,
		"isAvailable": box.IsAvailable,
		"restaurant": gin.H{
			"id":    box.Restaurant.ID,
			"name":  box.Restaurant.Name,
			"phone": box.Restaurant.Phone,
		},
	}
}
