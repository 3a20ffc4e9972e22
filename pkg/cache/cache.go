// Package cache provides content-addressed caching for analysis results.
//
// Analysis reports are keyed by a BLAKE3 hash of the model source plus the
// analyzer options, so a model re-analyzed without changes is served from
// cache. [FileCache] persists entries under a directory for CLI usage;
// [NullCache] disables caching entirely.
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// TTLReport is the lifetime of cached analysis reports. Report keys are
// content-addressed, so entries never go stale; the TTL only bounds disk
// growth for models that are analyzed once and forgotten.
const TTLReport = 30 * 24 * time.Hour

// Cache stores byte blobs under string keys with optional expiration.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
