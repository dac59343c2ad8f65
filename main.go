package main

import (
	"context"
	"foodbox_backend/pkg/config"
	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/middleware"
	"foodbox_backend/pkg/routes"
	"foodbox_backend/pkg/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize relational database
	log.Println("🔌 Initializing database connection...")
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	if err := database.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize document store for wishlists
	log.Println("🔌 Initializing mongo connection...")
	if err := database.InitMongo(); err != nil {
		log.Fatal("Failed to initialize mongo:", err)
	}
	defer database.CloseMongo()

	// Initialize feed cache
	if err := services.InitRedis(); err != nil {
		log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
	}
	defer services.CloseRedis()

	// Initialize GCP Storage service
	if err := services.InitGCPStorage(); err != nil {
		log.Printf("⚠️  Warning: GCP Storage initialization failed: %v", err)
	} else {
		log.Println("✅ GCP Storage initialized successfully")
	}

	// Initialize FCM service
	if err := services.InitFCM(); err != nil {
		log.Printf("⚠️  Warning: FCM initialization failed: %v", err)
	} else {
		log.Println("✅ FCM initialized successfully")
	}

	// Initialize Razorpay service
	if err := services.InitRazorpay(); err != nil {
		log.Printf("⚠️  Warning: Razorpay initialization failed: %v", err)
	} else {
		log.Println("✅ Razorpay initialized successfully")
	}

	// Set Gin mode based on environment
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize Gin router
	router := gin.Default()

	// Recovery middleware for panic handling
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.ErrorMiddleware())

	// Session middleware
	store := cookie.NewStore([]byte(config.AppConfig.SessionSecret))
	router.Use(sessions.Sessions("session", store))

	// CORS middleware
	setupCORS(router)

	router.MaxMultipartMemory = 10 << 20 // 10 MB

	// Routes
	setupRoutes(router)

	// Start server
	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: router,
	}

	// Server startup in goroutine
	go func() {
		log.Printf("🚀 Server running in %s mode\n", config.AppConfig.Environment)
		log.Printf("📡 Server listening on http://localhost:%s\n", config.AppConfig.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// setupCORS configures CORS middleware
func setupCORS(router *gin.Engine) {
	isProduction := config.IsProduction()

	defaultOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}

	var allowOrigins []string
	if isProduction && config.AppConfig.AllowedOrigins != "" {
		allowOrigins = parseOrigins(config.AppConfig.AllowedOrigins)
	} else {
		allowOrigins = defaultOrigins
	}

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if isProduction {
		corsConfig.AllowOrigins = allowOrigins
		log.Printf("🔒 CORS enabled for origins: %v\n", allowOrigins)
	} else {
		// In development, trust any origin to keep local clients simple
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return true
		}
		log.Println("🔓 CORS enabled for all origins (development mode)")
	}

	router.Use(cors.New(corsConfig))
}

// parseOrigins splits comma-separated origin string
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setupRoutes sets up all application routes
func setupRoutes(router *gin.Engine) {
	// Root route
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "FoodBox Backend Server is running...")
	})

	router.NoRoute(middleware.NotFoundHandler())
	router.HandleMethodNotAllowed = true
	router.NoMethod(middleware.MethodNotAllowedHandler())

	// API routes group
	api := router.Group("/api")
	{
		routes.RegisterAuthRoutes(api)
		routes.RegisterPublicRoutes(api)
		routes.RegisterCustomerRoutes(api)
		routes.RegisterRestaurantRoutes(api)
		routes.RegisterAdminRoutes(api)
		routes.RegisterWishlistRoutes(api)

		// Health check route
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":      "ok",
				"environment": config.AppConfig.Environment,
				"database":    "connected",
			})
		})
	}
}
