package cache

import (
	"context"
	"errors"
	"time"
)

// Common cache operation errors.
var (
	// ErrKeyNotFound is returned when a requested key does not exist.
	ErrKeyNotFound = errors.New("cache: key not found")

	// ErrInvalidKey is returned when a cache key is empty or malformed.
	ErrInvalidKey = errors.New("cache: invalid key")

	// ErrUnavailable is returned when a cache layer is temporarily unavailable,
	// for example while its circuit breaker is open.
	ErrUnavailable = errors.New("cache: layer unavailable")
)

// IsNotFound checks if the given error indicates that a key was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// Layer is a single cache backend holding serialized response payloads.
type Layer interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Name() string
	Close() error
}
