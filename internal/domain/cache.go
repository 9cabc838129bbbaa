package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the key/value port the Redis session store is built on.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// GetEx is Get that also resets the key's expiration. As with Set, a zero
	// expiration keeps the key forever.
	GetEx(ctx context.Context, key string, expiration time.Duration) (string, error)

	// Set overwrites any existing value. A zero expiration keeps the key forever.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete does not fail on a missing key.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}
