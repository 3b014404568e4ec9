// Package cache provides the TTL cache the template store sits behind.
// Values round-trip through JSON in every backend, so a cached entry is
// always returned as a fresh snapshot and callers can never mutate the
// stored copy.
package cache

import "context"

// Cache stores JSON-encodable values under string keys with a fixed TTL.
type Cache interface {
	// Get decodes the cached value into dest and reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key for the backend's TTL, replacing any
	// previous entry.
	Set(ctx context.Context, key string, value any) error
}
