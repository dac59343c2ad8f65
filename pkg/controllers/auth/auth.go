package auth

import (
	"net/http"

	"foodbox_backend/pkg/config"
	"foodbox_backend/pkg/database"
	"foodbox_backend/pkg/middleware"
	"foodbox_backend/pkg/models"
	"foodbox_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

// redirectURLForRole maps a role onto the post-login landing page
func redirectURLForRole(role models.Role) string {
	switch role {
	case models.RoleRestaurant:
		return "/restaurant/dashboard"
	case models.RoleAdmin:
		return "/admin/orders"
	default:
		return "/feed"
	}
}

// Register handles account registration for all roles
func Register(c *gin.Context) {
	var req struct {
		Email           string  `json:"email" binding:"required,email"`
		Username        string  `json:"username" binding:"required"`
		Password        string  `json:"password" binding:"required"`
		ConfirmPassword string  `json:"confirmPassword" binding:"required"`
		Role            *string `json:"role"`
		Phone           *string `json:"phone"`
		Address         *string `json:"address"`
		RestaurantName  *string `json:"restaurantName"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest,
			"Email, username, password, and confirm password are required", err.Error())
		return
	}

	if req.Password != req.ConfirmPassword {
		utils.BadRequestResponse(c, "Passwords do not match")
		return
	}

	if err := utils.CheckPasswordStrength(req.Password); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	role := models.RoleCustomer
	if req.Role != nil {
		switch models.Role(*req.Role) {
		case models.RoleCustomer, models.RoleRestaurant, models.RoleAdmin:
			role = models.Role(*req.Role)
		default:
			utils.BadRequestResponse(c, "Invalid role")
			return
		}
	}

	var existing models.User
	if err := database.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.ConflictResponse(c, "User with this email or username already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	user := models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: &hashedPassword,
		Role:     role,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		// Restaurant accounts get their restaurant created alongside
		if role == models.RoleRestaurant {
			name := user.Username
			if req.RestaurantName != nil && *req.RestaurantName != "" {
				name = *req.RestaurantName
			}
			restaurant := models.Restaurant{
				Name:    name,
				Phone:   req.Phone,
				OwnerID: user.ID,
			}
			if err := tx.Create(&restaurant).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	setTokenCookie(c, token)

	utils.CreatedResponse(c, gin.H{
		"user":  user,
		"token": token,
	}, "Account created successfully")
}

// Login handles login for all roles
func Login(c *gin.Context) {
	var req struct {
		Email    string  `json:"email" binding:"required"`
		Password string  `json:"password" binding:"required"`
		Role     string  `json:"role" binding:"required"`
		TotpCode *string `json:"totpCode"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Email, password, and role are required")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.UnauthorizedResponse(c, "Invalid credentials")
		return
	}

	if user.Role != models.Role(req.Role) {
		utils.UnauthorizedResponse(c, "Invalid credentials")
		return
	}

	if user.Password == nil {
		utils.UnauthorizedResponse(c, "Invalid credentials")
		return
	}

	if err := utils.ComparePassword(*user.Password, req.Password); err != nil {
		utils.UnauthorizedResponse(c, "Invalid credentials")
		return
	}

	if user.TwoFactorEnabled {
		if user.TwoFactorSecret == nil || req.TotpCode == nil {
			utils.UnauthorizedResponse(c, "Two-factor code required")
			return
		}
		if !totp.Validate(*req.TotpCode, *user.TwoFactorSecret) {
			utils.UnauthorizedResponse(c, "Invalid two-factor code")
			return
		}
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Internal server error")
		return
	}

	setTokenCookie(c, token)

	response := gin.H{
		"user":        user,
		"token":       token,
		"redirectUrl": redirectURLForRole(user.Role),
	}
	if expiresAt, err := utils.GetTokenExpiration(token); err == nil {
		response["expiresAt"] = expiresAt
	}

	utils.SuccessResponse(c, response, "Login successful")
}

// RegisterDeviceToken stores an FCM device token for push notifications
func RegisterDeviceToken(c *gin.Context) {
	var req struct {
		Token    string  `json:"token" binding:"required"`
		Platform *string `json:"platform"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Device token is required")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	deviceToken := models.UserDeviceToken{
		UserID:   user.ID,
		Token:    req.Token,
		Platform: req.Platform,
	}

	// Token already registered (possibly by another account) — rebind it
	if err := database.DB.Where("token = ?", req.Token).First(&models.UserDeviceToken{}).Error; err == nil {
		database.DB.Model(&models.UserDeviceToken{}).
			Where("token = ?", req.Token).
			Update("userId", user.ID)
		utils.SuccessResponse(c, nil, "Device token updated")
		return
	}

	if err := database.DB.Create(&deviceToken).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Failed to register device token")
		return
	}

	utils.CreatedResponse(c, nil, "Device token registered")
}

// Setup2FA generates a TOTP secret for a restaurant-owner account
func Setup2FA(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "FoodBox",
		AccountName: user.Email,
	})
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to generate 2FA key")
		return
	}

	// Store secret, not enabled until confirmed
	secret := key.Secret()
	if err := database.DB.Model(&user).Update("twoFactorSecret", secret).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Failed to save 2FA secret")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"secret":     secret,
		"otpAuthUrl": key.URL(),
	}, "2FA setup generated")
}

// Enable2FA confirms the TOTP setup with a valid code
func Enable2FA(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Token is required")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	if user.TwoFactorSecret == nil {
		utils.BadRequestResponse(c, "2FA setup not initiated")
		return
	}

	if !totp.Validate(req.Token, *user.TwoFactorSecret) {
		utils.BadRequestResponse(c, "Invalid 2FA token")
		return
	}

	if err := database.DB.Model(&user).Update("twoFactorEnabled", true).Error; err != nil {
		utils.InternalServerErrorResponse(c, "Failed to enable 2FA")
		return
	}

	utils.SuccessResponse(c, nil, "2FA enabled successfully")
}

// CheckAuth returns the authenticated principal for session restore
func CheckAuth(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required.")
		return
	}

	utils.SuccessResponseWithData(c, gin.H{
		"user": gin.H{
			"id":               user.ID,
			"username":         user.Username,
			"email":            user.Email,
			"role":             user.Role,
			"twoFactorEnabled": user.TwoFactorEnabled,
		},
		"redirectUrl": redirectURLForRole(user.Role),
	})
}

// Logout clears the auth cookie
func Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", config.AppConfig.CookieSecure == "true", true)
	utils.SuccessResponse(c, nil, "Logged out successfully")
}

// setTokenCookie sets the httpOnly auth cookie alongside the returned token
func setTokenCookie(c *gin.Context, token string) {
	c.SetCookie(
		"token",
		token,
		7*24*60*60, // 7 days
		"/",
		"",
		config.AppConfig.CookieSecure == "true",
		true, // httpOnly
	)
}
