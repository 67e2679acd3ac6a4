package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/medikita/triage-ai/internal/domain/providers"
	redisclient "github.com/medikita/triage-ai/internal/infrastructure/clients/redis"
	"github.com/redis/go-redis/v9"
)

// RedisAdapter implements the CacheProvider interface using Redis.
// Expired entries are evicted by Redis itself via the per-key TTL.
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{
		client: client,
	}
}

// Get retrieves a value from cache
func (a *RedisAdapter) Get(ctx context.Context, key string) (string, error) {
	result, err := a.client.Client().Get(ctx, key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("key not found: %s", key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get from cache: %w", err)
	}
	return result, nil
}

// Set stores a value in cache with a time-to-live
func (a *RedisAdapter) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := a.client.Client().Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// Size returns the number of keys in the backing database
func (a *RedisAdapter) Size(ctx context.Context) (int64, error) {
	size, err := a.client.Client().DBSize(ctx).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read cache size: %w", err)
	}
	return size, nil
}
