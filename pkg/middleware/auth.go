package middleware

import (
	"net/http"
	"strings"

	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// authenticate resolves the bearer token (cookie or Authorization header),
// verifies it, and attaches the database user to the context. Aborts the
// request with a 401 and returns false on any failure. It never advances the
// handler chain itself, so callers can compose it with further checks.
func authenticate(c *gin.Context) bool {
	token := ""

	// Check cookie first
	if cookieToken, err := c.Cookie("token"); err == nil && cookieToken != "" {
		token = cookieToken
	}

	// If not in cookie, check Authorization header
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
	}

	if token == "" {
		utils.UnauthorizedResponse(c, "Access denied. No token provided.")
		c.Abort()
		return false
	}

	claims, err := utils.VerifyToken(token)
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			utils.UnauthorizedResponse(c, "Token expired.")
		} else {
			utils.UnauthorizedResponse(c, "Invalid token.")
		}
		c.Abort()
		return false
	}

	var user models.User
	if err := database.DB.First(&user, claims.ID).Error; err != nil {
		utils.UnauthorizedResponse(c, "Invalid token. User not found.")
		c.Abort()
		return false
	}

	c.Set("user", user)
	return true
}

// authorize checks the attached user against the allowed roles, aborting
// with a 403 (or 401 when no user is attached) on failure.
func authorize(c *gin.Context, roles ...models.Role) bool {
	user, ok := CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		c.Abort()
		return false
	}

	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}

	utils.ForbiddenResponse(c, "Access denied. Insufficient permissions.")
	c.Abort()
	return false
}

// AuthenticateToken attaches the authenticated user to the context
func AuthenticateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c)
	}
}

// AuthorizeRoles checks that the authenticated user has one of the given roles
func AuthorizeRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorize(c, roles...)
	}
}

// CurrentUser fetches the authenticated user previously set by authenticate
func CurrentUser(c *gin.Context) (models.User, bool) {
	userInterface, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := userInterface.(models.User)
	return user, ok
}

// RestrictToCustomer - convenience middleware for CUSTOMER only
func RestrictToCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		authorize(c, models.RoleCustomer)
	}
}

// RestrictToRestaurant - convenience middleware for RESTAURANT only
func RestrictToRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		authorize(c, models.RoleRestaurant)
	}
}

// RestrictToAdmin - convenience middleware for ADMIN only
func RestrictToAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		authorize(c, models.RoleAdmin)
	}
}

// MethodNotAllowedHandler responds to known paths hit with the wrong verb
func MethodNotAllowedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"success": false,
			"error":   "Method not allowed",
		})
	}
}
