package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/pkg/global"
	"github.com/supplyhub/storefront-api/pkg/models"
	"github.com/supplyhub/storefront-api/pkg/mongo"
)

// CreateOrder persists an order directly, without a payment intent.
// Payment-backed submissions go through the checkout endpoint instead.
func CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Order items are required", []global.ValidationError{
			{Field: "items", Message: "At least one item is required", Code: "required"},
		}))
		return
	}
	if req.Total <= 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Valid total amount is required", []global.ValidationError{
			{Field: "total", Message: "Total must be greater than zero", Code: "invalid_value"},
		}))
		return
	}
	if req.ShippingAddress == (models.ShippingAddress{}) {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Shipping address is required", []global.ValidationError{
			{Field: "shippingAddress", Message: "Shipping address is required", Code: "required"},
		}))
		return
	}

	order := &models.Order{
		OrderNumber:     models.GenerateOrderNumber(),
		UserID:          currentUserID(c),
		Items:           req.Items,
		Total:           req.Total,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
	}

	created, err := orderStore.Create(c.Request.Context(), order, models.GenerateOrderNumber)
	if err != nil {
		logger.Error("Failed to create order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create order", nil))
		return
	}
	producer.PublishOrderCreated(created)

	c.JSON(http.StatusCreated, global.SuccessResponse(created))
}

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(c *gin.Context) {
	orders, err := orderStore.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		logger.Error("Failed to fetch orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

// GetOrderByID fetches one order; non-admin callers may only fetch their
// own.
func GetOrderByID(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid order ID format", []global.ValidationError{
			{Field: "id", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
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
			logger.Error("Failed to fetch order", zap.String("id", id.Hex()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch order", nil))
		}
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

// AdminListOrders returns every order for the back office.
func AdminListOrders(c *gin.Context) {
	orders, err := orderStore.ListAll(c.Request.Context())
	if err != nil {
		logger.Error("Failed to fetch orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

// AdminUpdateOrderStatus moves an order through its lifecycle.
func AdminUpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", nil))
		return
	}

	if req.OrderID == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Order ID is required", []global.ValidationError{
			{Field: "orderId", Message: "Order ID is required", Code: "required"},
		}))
		return
	}

	id, err := bson.ObjectIDFromHex(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid order ID format", []global.ValidationError{
			{Field: "orderId", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	order, err := orderStore.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Valid status is required", []global.ValidationError{
				{Field: "status", Message: "Must be one of pending, processing, shipped, delivered, cancelled", Code: "invalid_value"},
			}))
		case errors.Is(err, mongo.ErrNotFound):
			c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", nil))
		default:
			logger.Error("Failed to update order", zap.String("id", req.OrderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update order", nil))
		}
		return
	}
	producer.PublishOrderStatusChanged(order)

	c.JSON(http.StatusOK, global.SuccessResponse(order))
}
