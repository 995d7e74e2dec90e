package router

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/supplyhub/storefront-api/pkg/global"
	"github.com/supplyhub/storefront-api/pkg/models"
	"github.com/supplyhub/storefront-api/pkg/mongo"
)

const (
	bcryptCost     = 12
	tokenLifetime  = 24 * time.Hour
	resetTokenTTL  = time.Hour
	minPasswordLen = 6
)

func generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// Register creates a customer account. New accounts always get the
// "user" role; promotion is an admin action.
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Missing required fields", []global.ValidationError{
			{Field: "request", Message: "name, email and password are required", Code: "required"},
		}))
		return
	}

	if len(req.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Password does not meet requirements", []global.ValidationError{
			{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters long", minPasswordLen), Code: "too_short"},
		}))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process password", nil))
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	created, err := mongo.CreateUser(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, mongo.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, global.ErrorResponse("User with this email already exists", []global.ValidationError{
				{Field: "email", Message: "This email is already in use", Code: "duplicate_email"},
			}))
			return
		}
		logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create user", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(gin.H{
		"id":    created.ID.Hex(),
		"name":  created.Name,
		"email": created.Email,
		"role":  created.Role,
	}))
}

// Login verifies credentials and issues a session token carrying the
// caller's id, email and role.
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Email and password are required", nil))
		return
	}

	user, err := mongo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
			return
		}
		logger.Error("Failed to look up user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Login failed", nil))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}

	token, err := generateToken(user)
	if err != nil {
		logger.Error("Failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Login failed", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	}))
}

// ForgotPassword stores a reset token and hands the link to the mailer.
// The response never reveals whether the account exists.
func ForgotPassword(c *gin.Context) {
	const opaqueMessage = "If an account with that email exists, a password reset link has been sent."

	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Email is required", []global.ValidationError{
			{Field: "email", Message: "Email is required", Code: "required"},
		}))
		return
	}

	ctx := c.Request.Context()

	user, err := mongo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusOK, global.APIResponse{Success: true, Message: opaqueMessage})
			return
		}
		logger.Error("Failed to look up user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process request", nil))
		return
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		logger.Error("Failed to generate reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process request", nil))
		return
	}
	resetToken := hex.EncodeToString(tokenBytes)

	if err := mongo.SetResetToken(ctx, user.ID, resetToken, time.Now().Add(resetTokenTTL)); err != nil {
		logger.Error("Failed to store reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process request", nil))
		return
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", cfg.AppBaseURL, resetToken)
	if err := mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		logger.Error("Failed to send reset email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to send password reset email. Please try again.", nil))
		return
	}

	c.JSON(http.StatusOK, global.APIResponse{Success: true, Message: opaqueMessage})
}

func ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Token and new password are required", nil))
		return
	}

	if len(req.NewPassword) < minPasswordLen {
		c.JSON(http.StatusBadRequest, global.ErrorResponse(
			fmt.Sprintf("New password must be at least %d characters long", minPasswordLen), nil))
		return
	}

	ctx := c.Request.Context()

	user, err := mongo.GetUserByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid or expired reset token", nil))
			return
		}
		logger.Error("Failed to look up reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to reset password", nil))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process password", nil))
		return
	}

	if err := mongo.ResetPassword(ctx, user.ID, string(hashedPassword)); err != nil {
		logger.Error("Failed to reset password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to reset password", nil))
		return
	}

	c.JSON(http.StatusOK, global.APIResponse{Success: true, Message: "Password reset successfully"})
}

func ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Current and new passwords are required", nil))
		return
	}

	if len(req.NewPassword) < minPasswordLen {
		c.JSON(http.StatusBadRequest, global.ErrorResponse(
			fmt.Sprintf("New password must be at least %d characters long", minPasswordLen), nil))
		return
	}

	userID, err := bson.ObjectIDFromHex(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid session", nil))
		return
	}

	ctx := c.Request.Context()

	user, err := mongo.GetUserByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid session", nil))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Current password is incorrect", nil))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process password", nil))
		return
	}

	if err := mongo.UpdateUserPassword(ctx, user.ID, string(hashedPassword)); err != nil {
		logger.Error("Failed to change password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to change password", nil))
		return
	}

	c.JSON(http.StatusOK, global.APIResponse{Success: true, Message: "Password changed successfully"})
}

// CheckAdminSetup reports whether the one-time admin bootstrap is still
// available.
func CheckAdminSetup(c *gin.Context) {
	exists, err := mongo.AdminExists(c.Request.Context())
	if err != nil {
		logger.Error("Failed to check admin setup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to check setup status", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"setupRequired": !exists}))
}

// SetupAdmin creates the first admin account. Refused once any admin
// exists.
func SetupAdmin(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Missing required fields", nil))
		return
	}

	ctx := c.Request.Context()

	exists, err := mongo.AdminExists(ctx)
	if err != nil {
		logger.Error("Failed to check admin setup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create admin", nil))
		return
	}
	if exists {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Admin account already exists", nil))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process password", nil))
		return
	}

	admin := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	created, err := mongo.CreateUser(ctx, admin)
	if err != nil {
		if errors.Is(err, mongo.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, global.ErrorResponse("User with this email already exists", nil))
			return
		}
		logger.Error("Failed to create admin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create admin", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(gin.H{
		"id":    created.ID.Hex(),
		"email": created.Email,
		"role":  created.Role,
	}))
}
