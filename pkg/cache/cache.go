package cache

import "github.com/sot/ska-helpers/errors"

// Cache represents a generic cache that all implementations must satisfy.
// The cache is parameterized by a comparable key type K and value type V.
type Cache[K comparable, V any] interface {
	// Get retrieves a value by key and marks it as recently used. A miss
	// returns the zero value and an error matching errors.ErrKeyNotFound;
	// Get never silently substitutes a default.
	Get(key K) (V, error)

	// Set stores a value with the given key and marks it as recently used.
	// Returns true if a new entry was created, false if an existing entry
	// was updated.
	Set(key K, value V) bool

	// Contains reports whether the key is present. Unlike Get, it does not
	// count as a use: recency order and hit/miss statistics are unaffected.
	Contains(key K) bool

	// Delete removes an entry by key. Returns true if the key existed.
	Delete(key K) bool

	// Len returns the current number of entries in the cache.
	Len() int

	// Keys returns a slice of all keys currently in the cache.
	Keys() []K

	// Clear removes all entries from the cache.
	Clear()

	// Stats returns cache statistics, nil for caches that do not track any.
	Stats() *Statistics

	// Close shuts down the cache and releases any resources.
	Close() error
}

// EvictCallback is called when an entry is evicted from the cache.
// It receives the key and value of the evicted entry.
type EvictCallback[K comparable, V any] func(key K, value V)

// validateCapacity checks the fixed capacity requested at construction.
// Capacity is fixed for the lifetime of a cache; there is no resize.
func validateCapacity(capacity int) error {
	if capacity < 1 {
		return errors.WrapInvalid(errors.ErrInvalidCapacity, "cache", "validateCapacity",
			"capacity must be at least 1")
	}
	return nil
}
