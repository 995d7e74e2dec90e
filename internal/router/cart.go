package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/pkg/cart"
	"github.com/supplyhub/storefront-api/pkg/global"
	"github.com/supplyhub/storefront-api/pkg/models"
	"github.com/supplyhub/storefront-api/pkg/mongo"
	"github.com/supplyhub/storefront-api/pkg/redis"
)

// CreateCartSession mints the local-storage identity a client keys its
// cart under.
func CreateCartSession(c *gin.Context) {
	c.JSON(http.StatusCreated, global.SuccessResponse(gin.H{"sessionId": uuid.New().String()}))
}

// GetCart returns the persisted cart; a session with no stored cart gets
// an empty one.
func GetCart(c *gin.Context) {
	state, err := redis.GetCart(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		logger.Error("Failed to load cart", zap.String("session_id", c.Param("sessionId")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to load cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(state))
}

// AddToCart adds one unit of a product, snapshotting its price and stock
// from the live catalog.
func AddToCart(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "productId", Message: "productId is required", Code: "required"},
		}))
		return
	}

	productID, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", []global.ValidationError{
			{Field: "productId", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	ctx := c.Request.Context()

	product, err := mongo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		logger.Error("Failed to fetch product for cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}

	state, err := redis.GetCart(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	state.AddItem(cart.Item{
		ID:       product.ID.Hex(),
		Name:     product.Name,
		Price:    product.Price,
		Image:    image,
		Category: product.Category,
		Stock:    product.Stock,
	})

	if err := redis.SaveCart(ctx, sessionID, state); err != nil {
		logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(state))
}

// UpdateCartItem sets a line's quantity. Out-of-range values are clamped
// against the stock snapshot; zero removes the line.
func UpdateCartItem(c *gin.Context) {
	sessionID := c.Param("sessionId")
	itemID := c.Param("id")

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "quantity", Message: "quantity is required", Code: "required"},
		}))
		return
	}

	ctx := c.Request.Context()

	state, err := redis.GetCart(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}

	if state.Find(itemID) == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Item not found in cart", nil))
		return
	}

	state.UpdateQuantity(itemID, *req.Quantity)

	if err := redis.SaveCart(ctx, sessionID, state); err != nil {
		logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(state))
}

func RemoveFromCart(c *gin.Context) {
	sessionID := c.Param("sessionId")
	itemID := c.Param("id")

	ctx := c.Request.Context()

	state, err := redis.GetCart(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}

	state.RemoveItem(itemID)

	if err := redis.SaveCart(ctx, sessionID, state); err != nil {
		logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(state))
}

// ClearCart empties the session's cart, as after a successful checkout.
func ClearCart(c *gin.Context) {
	sessionID := c.Param("sessionId")

	if err := redis.ClearCart(c.Request.Context(), sessionID); err != nil {
		logger.Error("Failed to clear cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to clear cart", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(cart.NewState()))
}
