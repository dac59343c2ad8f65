package public

import (
	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetBoxes returns every visible box with its restaurant summary
func GetBoxes(c *gin.Context) {
	var boxes []models.Box
	if err := database.DB.
		Where(`"isHidden" = ?`, false).
		Preload("Restaurant").
		Order(`"createdAt" DESC`).
		Find(&boxes).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	formatted := make([]gin.H, len(boxes))
	for i, box := range boxes {
		formatted[i] = formatFeedBox(box)
	}

	utils.SuccessResponseWithData(c, gin.H{"boxes": formatted})
}

// GetBoxesByIDs looks up a specific set of boxes, for hydrating client-held
// carts and favorites
func GetBoxesByIDs(c *gin.Context) {
	var req struct {
		IDs []int `json:"ids" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		utils.BadRequestResponse(c, "ids array is required")
		return
	}

	var boxes []models.Box
	if err := database.DB.
		Where("id IN ?", req.IDs).
		Preload("Restaurant").
		Find(&boxes).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	formatted := make([]gin.H, len(boxes))
	for i, box := range boxes {
		formatted[i] = formatFeedBox(box)
	}

	utils.SuccessResponseWithData(c, gin.H{"boxes": formatted})
}
