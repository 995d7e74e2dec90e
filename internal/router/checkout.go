package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/internal/checkout"
	"github.com/supplyhub/storefront-api/pkg/global"
	"github.com/supplyhub/storefront-api/pkg/models"
	"github.com/supplyhub/storefront-api/pkg/mongo"
)

// Checkout submits the cart contents for payment. Validation failures
// are 400s; a payment-collaborator failure is a 500 with the order left
// cancelled as an audit trail.
func Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	result, err := checkoutService.Checkout(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		var validationErr *checkout.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, global.ErrorResponse(validationErr.Message, []global.ValidationError{
				{Field: validationErr.Field, Message: validationErr.Message, Code: "validation_error"},
			}))
		case errors.Is(err, checkout.ErrPaymentFailed):
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Payment processing failed", nil))
		default:
			logger.Error("Checkout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Checkout processing failed", nil))
		}
		return
	}

	resp := gin.H{
		"success":     true,
		"orderId":     result.OrderID,
		"orderNumber": result.OrderNumber,
	}
	if result.Intent != nil {
		resp["paymentIntent"] = result.Intent
	}
	c.JSON(http.StatusOK, resp)
}

// GetCheckoutStatus lets the client poll the order it submitted.
func GetCheckoutStatus(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Order ID is required", []global.ValidationError{
			{Field: "orderId", Message: "orderId query parameter is required", Code: "required"},
		}))
		return
	}

	id, err := bson.ObjectIDFromHex(orderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid order ID format", []global.ValidationError{
			{Field: "orderId", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	order, err := orderStore.GetByID(c.Request.Context(), id, currentUserID(c), isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNotFound):
			c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", nil))
		case errors.Is(err, mongo.ErrForbidden):
			c.JSON(http.StatusForbidden, global.ErrorResponse("Unauthorized", nil))
		default:
			logger.Error("Failed to get checkout status", zap.String("id", orderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get checkout status", nil))
		}
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{
		"id":             order.ID.Hex(),
		"orderNumber":    order.OrderNumber,
		"status":         order.Status,
		"total":          order.Total,
		"items":          order.Items,
		"paymentDetails": order.PaymentDetails,
		"createdAt":      order.CreatedAt,
	}))
}
