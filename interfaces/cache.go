package interfaces

import "context"

// Cache represents cache for storing contents.
//
//go:generate moq -stub -out mock/cache.go -pkg mock . Cache
type Cache[T any] interface {
	// WriteValue writes value in cache with the given TTL (ms); ttlMs <= 0 means no expiry.
	// Returns internal_server_error when marshalling or the storage write fails.
	WriteValue(ctx context.Context, key string, item T, ttlMs int) error

	// ListAllValues returns all values in the cache.
	// Returns (nil, entity_not_found) when there are no values and
	// (nil, internal_server_error) when listing keys fails.
	ListAllValues(ctx context.Context) ([]T, error)

	// DeleteValue deletes the value for the given key from the cache.
	DeleteValue(ctx context.Context, key string) error
}
