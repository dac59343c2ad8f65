package public

import (
	"strconv"

	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetRestaurants lists all restaurants
func GetRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := database.DB.Order("name ASC").Find(&restaurants).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponseWithData(c, gin.H{"restaurants": restaurants})
}

// GetRestaurant returns one restaurant with its visible boxes
func GetRestaurant(c *gin.Context) {
	restaurantID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid restaurant ID")
		return
	}

	var restaurant models.Restaurant
	if err := database.DB.
		Preload("Boxes", `"isHidden" = ?`, false).
		First(&restaurant, restaurantID).Error; err != nil {
		utils.NotFoundResponse(c, "Restaurant not found")
		return
	}

	boxes := make([]gin.H, len(restaurant.Boxes))
	for i, box := range restaurant.Boxes {
		box.Restaurant = restaurant
		boxes[i] = formatFeedBox(box)
	}

	utils.SuccessResponseWithData(c, gin.H{
		"restaurant": gin.H{
			"id":          restaurant.ID,
			"name":        restaurant.Name,
			"phone":       restaurant.Phone,
			"description": restaurant.Description,
			"createdAt":   restaurant.CreatedAt,
		},
		"boxes": boxes,
	})
}
