package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/markethub/backend/internal/domain/shipping"
	"github.com/redis/go-redis/v9"
)

const defaultTokenKey = "carrier:token"

// RedisTokenCache shares the carrier API token across process instances
type RedisTokenCache struct {
	client *redis.Client
	key    string
}

// NewRedisTokenCache creates a Redis-backed carrier token cache.
// An empty key uses the default.
func NewRedisTokenCache(client *redis.Client, key string) *RedisTokenCache {
	if key == "" {
		key = defaultTokenKey
	}
	return &RedisTokenCache{client: client, key: key}
}

// Get returns the cached token, or "" when absent or expired
func (c *RedisTokenCache) Get(ctx context.Context) (string, error) {
	token, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read carrier token: %w", err)
	}
	return token, nil
}

// Set stores a token with the given time-to-live
func (c *RedisTokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store carrier token: %w", err)
	}
	return nil
}

// Invalidate drops the cached token
func (c *RedisTokenCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate carrier token: %w", err)
	}
	return nil
}

// Ensure RedisTokenCache implements TokenCache
var _ shipping.TokenCache = (*RedisTokenCache)(nil)
