package main

import (
	"foodbox_backend/pkg/config"
	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/utils"
	"log"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if err := database.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	seedAdmin()
	seedRestaurants()
	seedCustomer()
}

func seedAdmin() {
	email := "admin@foodbox.local"
	password := "admin123"

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err == nil {
		log.Printf("Admin %s already exists", email)
		return
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user = models.User{
		Email:    email,
		Username: "admin",
		Password: &hashedPassword,
		Role:     models.RoleAdmin,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Printf("✅ Admin %s created successfully", email)
}

func seedCustomer() {
	email := "customer@foodbox.local"
	password := "customer123"

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err == nil {
		log.Printf("Customer %s already exists", email)
		return
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user = models.User{
		Email:    email,
		Username: "testcustomer",
		Password: &hashedPassword,
		Role:     models.RoleCustomer,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		log.Fatal("Failed to create customer:", err)
	}

	log.Printf("✅ Customer %s created successfully", email)
}

func seedRestaurants() {
	type seedBox struct {
		title    string
		price    float64
		quantity int
	}
	seeds := []struct {
		email      string
		username   string
		restaurant string
		boxes      []seedBox
	}{
		{
			email:      "owner1@foodbox.local",
			username:   "greenbowl",
			restaurant: "Green Bowl Kitchen",
			boxes: []seedBox{
				{"Veggie Surprise Box", 5.99, 10},
				{"Soup & Bread Box", 4.50, 6},
			},
		},
		{
			email:      "owner2@foodbox.local",
			username:   "lacucina",
			restaurant: "La Cucina",
			boxes: []seedBox{
				{"Pasta of the Day", 7.25, 8},
				{"Bakery Leftovers Box", 3.99, 0},
			},
		},
	}

	for _, s := range seeds {
		var owner models.User
		if err := database.DB.Where("email = ?", s.email).First(&owner).Error; err == nil {
			log.Printf("Owner %s already exists", s.email)
			continue
		}

		hashedPassword, err := utils.HashPassword("owner123")
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}

		owner = models.User{
			Email:    s.email,
			Username: s.username,
			Password: &hashedPassword,
			Role:     models.RoleRestaurant,
		}
		if err := database.DB.Create(&owner).Error; err != nil {
			log.Fatal("Failed to create owner:", err)
		}

		restaurant := models.Restaurant{
			Name:    s.restaurant,
			OwnerID: owner.ID,
		}
		if err := database.DB.Create(&restaurant).Error; err != nil {
			log.Fatal("Failed to create restaurant:", err)
		}

		for _, b := range s.boxes {
			box := models.Box{
				Title:        b.title,
				Price:        b.price,
				Quantity:     b.quantity,
				RestaurantID: restaurant.ID,
			}
			box.ComputeAvailability()
			if err := database.DB.Create(&box).Error; err != nil {
				log.Fatal("Failed to create box:", err)
			}
			if box.Quantity > 0 {
				cmd := models.InventoryCommand{
					BoxID:    box.ID,
					Type:     models.InventoryCommandIncrease,
					Quantity: box.Quantity,
				}
				if err := database.DB.Create(&cmd).Error; err != nil {
					log.Fatal("Failed to record initial stock:", err)
				}
			}
		}

		log.Printf("✅ Restaurant %s seeded with %d boxes", s.restaurant, len(s.boxes))
	}
}
