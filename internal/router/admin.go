package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/pkg/ai"
	"github.com/supplyhub/storefront-api/pkg/global"
	"github.com/supplyhub/storefront-api/pkg/models"
	"github.com/supplyhub/storefront-api/pkg/mongo"
)

func AdminListUsers(c *gin.Context) {
	users, err := mongo.ListUsers(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch users", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(users))
}

func AdminUpdateUserRole(c *gin.Context) {
	var req models.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("userId and role are required", nil))
		return
	}

	if !models.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid role", []global.ValidationError{
			{Field: "role", Message: "Role must be one of: user, supplier, admin", Code: "invalid_role"},
		}))
		return
	}

	userID, err := bson.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid user ID", nil))
		return
	}

	// An admin demoting themselves locks everyone out of the back office.
	if req.UserID == currentUserID(c) && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("You cannot change your own role", nil))
		return
	}

	if err := mongo.UpdateUserRole(c.Request.Context(), userID, req.Role); err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("User not found", nil))
			return
		}
		logger.Error("Failed to update user role", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update user role", nil))
		return
	}

	c.JSON(http.StatusOK, global.APIResponse{Success: true, Message: "User role updated successfully"})
}

func AdminDeleteUser(c *gin.Context) {
	rawID := c.Query("userId")
	if rawID == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("userId query parameter is required", nil))
		return
	}

	userID, err := bson.ObjectIDFromHex(rawID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid user ID", nil))
		return
	}

	if rawID == currentUserID(c) {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("You cannot delete your own account", nil))
		return
	}

	if err := mongo.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("User not found", nil))
			return
		}
		logger.Error("Failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete user", nil))
		return
	}

	c.JSON(http.StatusOK, global.APIResponse{Success: true, Message: "User deleted successfully"})
}

func GetSalesAnalytics(c *gin.Context) {
	analytics, err := mongo.GetSalesAnalytics(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute sales analytics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch sales analytics", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(analytics))
}

// GenerateAISalesReport runs aggregations over the order history and
// asks the AI service for a narrative summary of them.
func GenerateAISalesReport(c *gin.Context) {
	if !ai.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("AI service is not configured", nil))
		return
	}

	report, err := ai.GenerateSalesReport(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate AI sales report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to generate sales report", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(report))
}
