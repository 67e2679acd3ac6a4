package providers

import (
	"context"
	"time"
)

// CacheProvider defines the interface for the narrative cache store.
// Implementations may fail; callers treat every error as a cache miss and
// never propagate it.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value in cache with a time-to-live
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Size returns the number of cached entries
	Size(ctx context.Context) (int64, error)
}
