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
	"github.com/supplyhub/storefront-api/pkg/redis"
)

func HealthCheck(c *gin.Context) {
	if err := mongo.GetClient().Ping(c, nil); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Database connection failed", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}

// GetProducts lists active products with filter/sort/pagination taken
// from the query string.
func GetProducts(c *gin.Context) {
	query := mongo.ParseProductQuery(c.Request.URL.Query())

	products, pagination, err := mongo.ListProducts(c.Request.Context(), query)
	if err != nil {
		logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch products", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       products,
		"pagination": pagination,
		"filters": gin.H{
			"search":    query.Search,
			"category":  query.Category,
			"sortBy":    query.SortBy,
			"sortOrder": query.SortOrder,
		},
	})
}

// GetProductByID serves a single product with a Redis cache in front of
// the catalog collection.
func GetProductByID(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", []global.ValidationError{
			{Field: "id", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	ctx := c.Request.Context()

	if product, err := redis.GetProductFromCache(ctx, id.Hex()); err == nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, global.SuccessResponse(product))
		return
	}

	product, err := mongo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
				{Field: "id", Message: "No product exists with this ID", Code: "not_found"},
			}))
			return
		}
		logger.Error("Failed to fetch product", zap.String("id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}

	if cacheErr := redis.CacheSingleProduct(ctx, product); cacheErr != nil {
		logger.Warn("Failed to cache product", zap.String("id", id.Hex()), zap.Error(cacheErr))
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	product, err := mongo.CreateProduct(c.Request.Context(), req.ToProduct())
	if err != nil {
		logger.Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create product", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(product))
}

// UpdateProduct applies a partial update. Immutable fields are stripped
// from the payload rather than rejected.
func UpdateProduct(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", []global.ValidationError{
			{Field: "id", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	var updates bson.M
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid JSON format", []global.ValidationError{
			{Field: "body", Message: err.Error(), Code: "json_parse_error"},
		}))
		return
	}

	for _, field := range []string{"_id", "id", "createdAt"} {
		delete(updates, field)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No updates provided", []global.ValidationError{
			{Field: "body", Message: "Request body must contain at least one updatable field", Code: "empty_updates"},
		}))
		return
	}

	product, err := mongo.UpdateProductByID(c.Request.Context(), id, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		logger.Error("Failed to update product", zap.String("id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update product", nil))
		return
	}

	if cacheErr := redis.RemoveProductFromCache(c.Request.Context(), id.Hex()); cacheErr != nil {
		logger.Warn("Failed to invalidate product cache", zap.String("id", id.Hex()), zap.Error(cacheErr))
	}

	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func DeleteProduct(c *gin.Context) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", []global.ValidationError{
			{Field: "id", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	if err := mongo.DeleteProductByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		logger.Error("Failed to delete product", zap.String("id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete product", nil))
		return
	}

	if cacheErr := redis.RemoveProductFromCache(c.Request.Context(), id.Hex()); cacheErr != nil {
		logger.Warn("Failed to invalidate product cache", zap.String("id", id.Hex()), zap.Error(cacheErr))
	}

	c.JSON(http.StatusOK, global.APIResponse{Success: true, Message: "Product deleted successfully"})
}
