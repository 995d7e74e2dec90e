package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supplyhub/storefront-api/pkg/models"
)

const productCacheTTL = 24 * time.Hour

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// GetProductFromCache returns the cached product by id, or an error on a
// cache miss.
func GetProductFromCache(ctx context.Context, id string) (*models.Product, error) {
	client := RedisClient()
	defer client.Close()

	productJSON, err := client.Get(ctx, productKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	return &product, nil
}

// CacheSingleProduct stores a product JSON blob under product:{id}.
func CacheSingleProduct(ctx context.Context, product *models.Product) error {
	client := RedisClient()
	defer client.Close()

	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID.Hex(), err)
	}

	return client.Set(ctx, productKey(product.ID.Hex()), productJSON, productCacheTTL).Err()
}

// RemoveProductFromCache drops a product's cache entry after an update or
// delete so stale data is never served.
func RemoveProductFromCache(ctx context.Context, id string) error {
	client := RedisClient()
	defer client.Close()

	return client.Del(ctx, productKey(id)).Err()
}
