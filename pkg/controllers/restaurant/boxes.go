package restaurant

import (
	"encoding/base64"
	"fmt"
	"log"
	"strconv"
	"strings"

	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/middleware"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/services"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ownedRestaurant loads the restaurant belonging to the acting owner
func ownedRestaurant(userID int) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := database.DB.Where(`"ownerId" = ?`, userID).First(&restaurant).Error
	return restaurant, err
}

// ownedBox loads a box scoped to the owner's restaurant. A missing box and a
// foreign box are indistinguishable to the caller — both read as not found.
func ownedBox(tx *gorm.DB, boxID, restaurantID int) (models.Box, error) {
	var box models.Box
	err := tx.Where(`id = ? AND "restaurantId" = ?`, boxID, restaurantID).First(&box).Error
	return box, err
}

// GetMyBoxes returns the owner's boxes with summary stats
func GetMyBoxes(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	restaurant, err := ownedRestaurant(user.ID)
	if err != nil {
		utils.NotFoundResponse(c, "Restaurant not found")
		return
	}

	var boxes []models.Box
	if err := database.DB.
		Where(`"restaurantId" = ?`, restaurant.ID).
		Order(`"createdAt" DESC`).
		Find(&boxes).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	available := 0
	soldOut := 0
	stockSum := 0
	for _, box := range boxes {
		if box.IsAvailable {
			available++
		} else {
			soldOut++
		}
		stockSum += box.Quantity
	}

	utils.SuccessResponseWithData(c, gin.H{
		"restaurant": restaurant,
		"boxes":      boxes,
		"summary": gin.H{
			"total":     len(boxes),
			"available": available,
			"soldOut":   soldOut,
			"stockSum":  stockSum,
		},
	})
}

// createBoxRequest carries a new box's fields, bound from either a JSON body
// or a multipart form (the form variant carries the image as a file part).
type createBoxRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Quantity    int     `json:"quantity"`
	IsHidden    bool    `json:"isHidden"`
	ImageBase64 *string `json:"imageBase64"`
}

func bindCreateBoxForm(c *gin.Context) (createBoxRequest, error) {
	var req createBoxRequest

	req.Title = c.PostForm("title")
	if desc := c.PostForm("description"); desc != "" {
		req.Description = &desc
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		return req, fmt.Errorf("price is required")
	}
	req.Price = price

	if raw := c.PostForm("quantity"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("invalid quantity")
		}
		req.Quantity = quantity
	}
	req.IsHidden = c.PostForm("isHidden") == "true"

	if req.Title == "" {
		return req, fmt.Errorf("title is required")
	}
	return req, nil
}

// CreateBox creates a new box for the owner's restaurant
func CreateBox(c *gin.Context) {
	var req createBoxRequest
	multipartForm := strings.HasPrefix(c.ContentType(), "multipart/form-data")

	if multipartForm {
		bound, err := bindCreateBoxForm(c)
		if err != nil {
			utils.BadRequestResponse(c, err.Error())
			return
		}
		req = bound
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Title and price are required")
		return
	}

	if req.Price <= 0 {
		utils.BadRequestResponse(c, "Price must be positive")
		return
	}
	if req.Quantity < 0 {
		utils.BadRequestResponse(c, "Quantity cannot be negative")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	restaurant, err := ownedRestaurant(user.ID)
	if err != nil {
		utils.NotFoundResponse(c, "Restaurant not found")
		return
	}

	var imageURL *string
	imageUploadFailed := false
	if fileHeader, err := c.FormFile("image"); multipartForm && err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			utils.BadRequestResponse(c, "Invalid image file")
			return
		}
		defer file.Close()

		url, uploadErr := services.UploadBoxImageFromReader(file, fileHeader.Filename)
		if uploadErr != nil {
			log.Printf("box image upload failed for %q: %v", req.Title, uploadErr)
			imageUploadFailed = true
		} else {
			imageURL = &url
		}
	} else if req.ImageBase64 != nil && *req.ImageBase64 != "" {
		buffer, err := base64.StdEncoding.DecodeString(*req.ImageBase64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid image data")
			return
		}
		url, err := services.UploadBoxImage(buffer, fmt.Sprintf("box-%s.jpg", req.Title))
		if err != nil {
			log.Printf("box image upload failed for %q: %v", req.Title, err)
			imageUploadFailed = true
		} else {
			imageURL = &url
		}
	}

	box := models.Box{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Quantity:     req.Quantity,
		ImageURL:     imageURL,
		IsHidden:     req.IsHidden,
		RestaurantID: restaurant.ID,
	}
	box.ComputeAvailability()

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&box).Error; err != nil {
			return err
		}

		// Initial stock is an audited mutation too
		if box.Quantity > 0 {
			return tx.Create(&models.InventoryCommand{
				BoxID:            box.ID,
				Type:             models.InventoryCommandIncrease,
				Quantity:         box.Quantity,
				PreviousQuantity: 0,
			}).Error
		}
		return nil
	})

	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to create box")
		return
	}

	services.InvalidateFeedCache(c.Request.Context())

	message := "Box created successfully"
	if imageUploadFailed {
		message = "Box created, but the image upload failed"
	}
	utils.CreatedResponse(c, gin.H{"box": box}, message)
}

// UpdateBox updates a box's fields. A quantity change writes an inventory
// audit row; updates not touching quantity skip the audit entirely.
func UpdateBox(c *gin.Context) {
	boxID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box ID")
		return
	}

	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Quantity    *int     `json:"quantity"`
		IsHidden    *bool    `json:"isHidden"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	restaurant, err := ownedRestaurant(user.ID)
	if err != nil {
		utils.NotFoundResponse(c, "Restaurant not found")
		return
	}

	var updated models.Box
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		box, err := ownedBox(tx, boxID, restaurant.ID)
		if err != nil {
			return fmt.Errorf("box not found")
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			if *req.Title == "" {
				return fmt.Errorf("title cannot be empty")
			}
			updates["title"] = *req.Title
			box.Title = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
			box.Description = req.Description
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				return fmt.Errorf("price must be positive")
			}
			updates["price"] = *req.Price
			box.Price = *req.Price
		}
		if req.IsHidden != nil {
			updates["isHidden"] = *req.IsHidden
			box.IsHidden = *req.IsHidden
		}

		if req.Quantity != nil {
			if *req.Quantity < 0 {
				return fmt.Errorf("quantity cannot be negative")
			}
			previousQuantity := box.Quantity
			if *req.Quantity != previousQuantity {
				commandType := models.InventoryCommandIncrease
				delta := *req.Quantity - previousQuantity
				if delta < 0 {
					commandType = models.InventoryCommandDecrease
					delta = -delta
				}
				if err := tx.Create(&models.InventoryCommand{
					BoxID:            box.ID,
					Type:             commandType,
					Quantity:         delta,
					PreviousQuantity: previousQuantity,
				}).Error; err != nil {
					return err
				}
			}
			updates["quantity"] = *req.Quantity
			box.Quantity = *req.Quantity
		}

		box.ComputeAvailability()
		updates["isAvailable"] = box.IsAvailable

		if err := tx.Model(&models.Box{}).Where("id = ?", box.ID).Updates(updates).Error; err != nil {
			return err
		}

		updated = box
		return nil
	})

	if txErr != nil {
		if txErr.Error() == "box not found" {
			utils.NotFoundResponse(c, "Box not found")
		} else {
			utils.BadRequestResponse(c, txErr.Error())
		}
		return
	}

	services.InvalidateFeedCache(c.Request.Context())

	utils.SuccessResponse(c, gin.H{"box": updated}, "Box updated successfully")
}

// DeleteBox removes an owned box and its stored image
func DeleteBox(c *gin.Context) {
	boxID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box ID")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	restaurant, err := ownedRestaurant(user.ID)
	if err != nil {
		utils.NotFoundResponse(c, "Restaurant not found")
		return
	}

	box, err := ownedBox(database.DB, boxID, restaurant.ID)
	if err != nil {
		utils.NotFoundResponse(c, "Box not found")
		return
	}

	if err := database.DB.Delete(&box).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Failed to delete box")
		return
	}

	if box.ImageURL != nil {
		services.DeleteBoxImage(*box.ImageURL)
	}

	services.InvalidateFeedCache(c.Request.Context())

	utils.SuccessResponse(c, gin.H{"boxId": boxID}, "Box deleted successfully")
}
