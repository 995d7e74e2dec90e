package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"

	"github.com/supplyhub/storefront-api/pkg/cart"
)

// Carts persist across reloads keyed by a session identity the client
// holds; the snapshot expires after a day of inactivity.
const cartTTL = 24 * time.Hour

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// GetCart loads the persisted cart state for a session. A missing key
// yields an empty cart, never an error.
func GetCart(ctx context.Context, sessionID string) (*cart.State, error) {
	client := RedisClient()
	defer client.Close()

	payload, err := client.Get(ctx, cartKey(sessionID)).Result()
	if err != nil {
		if err == redisclient.Nil {
			return cart.NewState(), nil
		}
		return nil, err
	}

	state := cart.NewState()
	if err := json.Unmarshal([]byte(payload), state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart %s: %w", sessionID, err)
	}
	return state, nil
}

// SaveCart persists the cart snapshot and refreshes its TTL.
func SaveCart(ctx context.Context, sessionID string, state *cart.State) error {
	client := RedisClient()
	defer client.Close()

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal cart %s: %w", sessionID, err)
	}

	return client.Set(ctx, cartKey(sessionID), payload, cartTTL).Err()
}

// ClearCart removes the session's persisted cart entirely.
func ClearCart(ctx context.Context, sessionID string) error {
	client := RedisClient()
	defer client.Close()

	return client.Del(ctx, cartKey(sessionID)).Err()
}
