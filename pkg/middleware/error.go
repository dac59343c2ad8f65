package middleware

import (
	"log"
	"net/http"

	"foodbox_backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// ErrorMiddleware provides centralized error handling
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			log.Printf("Error: %v", err.Err)

			var statusCode int
			if err.Meta != nil {
				if code, ok := err.Meta.(int); ok {
					statusCode = code
				}
			}
			if statusCode == 0 {
				statusCode = http.StatusInternalServerError
			}

			message := err.Error()
			// Suppress 500 detail outside development
			if statusCode == http.StatusInternalServerError && !config.IsDevelopment() {
				message = "Internal server error"
			}
			if message == "" {
				message = "Internal server error"
			}

			c.JSON(statusCode, gin.H{
				"success": false,
				"error":   message,
			})
		}
	}
}

// RecoveryMiddleware handles panics and prevents server crashes
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)

				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route not found",
		})
	}
}
