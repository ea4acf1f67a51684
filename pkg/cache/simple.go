package cache

import (
	"sync"

	"github.com/sot/ska-helpers/errors"
)

// simpleCache is a thread-safe cache with no eviction policy.
// It stores items indefinitely until explicitly deleted or cleared.
type simpleCache[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]V
	stats   *Statistics         // ALWAYS initialized
	metrics *cacheMetrics       // Optional, if metrics enabled
	evictFn EvictCallback[K, V] // Optional callback
}

// newSimpleCache creates a new simple cache instance.
// Returns an error if metrics registration fails when requested.
func newSimpleCache[K comparable, V any](opts *cacheOptions[K, V]) (*simpleCache[K, V], error) {
	// Stats are ALWAYS initialized - observability is not optional
	stats := NewStatistics()

	var metrics *cacheMetrics
	// Optionally expose stats as Prometheus metrics
	if opts.metricsReg != nil && opts.metricsName != "" {
		var err error
		metrics, err = newCacheMetrics(opts.metricsReg, opts.metricsName)
		if err != nil {
			// Return classified error instead of silently ignoring
			return nil, errors.WrapTransient(err, "cache", "newSimpleCache", "metrics registration")
		}
	}

	return &simpleCache[K, V]{
		items:   make(map[K]V),
		stats:   stats,   // ALWAYS present
		metrics: metrics, // Optional
		evictFn: opts.evictCallback,
	}, nil
}

// Get retrieves a value by key. A miss returns errors.ErrKeyNotFound.
func (c *simpleCache[K, V]) Get(key K) (V, error) {
	c.mu.RLock()
	value, exists := c.items[key]
	c.mu.RUnlock()

	if exists {
		c.stats.Hit()
		if c.metrics != nil {
			c.metrics.recordHit()
		}
		return value, nil
	}

	c.stats.Miss()
	if c.metrics != nil {
		c.metrics.recordMiss()
	}
	var zero V
	return zero, errors.ErrKeyNotFound
}

// Set stores a value with the given key.
func (c *simpleCache[K, V]) Set(key K, value V) bool {
	c.mu.Lock()
	_, exists := c.items[key]
	c.items[key] = value
	size := len(c.items)
	c.mu.Unlock()

	c.stats.Set()
	c.stats.UpdateSize(int64(size))

	if c.metrics != nil {
		c.metrics.recordSet()
		c.metrics.updateSize(size)
	}

	return !exists // true if new entry was created
}

// Contains reports whether the key is present without affecting statistics.
func (c *simpleCache[K, V]) Contains(key K) bool {
	c.mu.RLock()
	_, exists := c.items[key]
	c.mu.RUnlock()
	return exists
}

// Delete removes an entry by key.
func (c *simpleCache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	value, exists := c.items[key]
	if exists {
		delete(c.items, key)
	}
	size := len(c.items)
	c.mu.Unlock()

	if !exists {
		return false
	}

	c.stats.Delete()
	c.stats.UpdateSize(int64(size))

	if c.metrics != nil {
		c.metrics.recordDelete()
		c.metrics.updateSize(size)
	}

	if c.evictFn != nil {
		c.evictFn(key, value)
	}

	return true
}

// Clear removes all entries from the cache.
func (c *simpleCache[K, V]) Clear() {
	c.mu.Lock()
	var evicted map[K]V
	if c.evictFn != nil {
		evicted = c.items
	}
	c.items = make(map[K]V)
	c.mu.Unlock()

	c.stats.UpdateSize(0)
	if c.metrics != nil {
		c.metrics.updateSize(0)
	}

	// Call eviction callbacks outside lock to prevent deadlock
	for key, value := range evicted {
		c.evictFn(key, value)
	}
}

// Len returns the current number of entries in the cache.
func (c *simpleCache[K, V]) Len() int {
	c.mu.RLock()
	size := len(c.items)
	c.mu.RUnlock()
	return size
}

// Keys returns a slice of all keys currently in the cache in map order.
func (c *simpleCache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns cache statistics.
func (c *simpleCache[K, V]) Stats() *Statistics {
	return c.stats
}

// Close shuts down the cache. For the simple cache, this is a no-op.
func (c *simpleCache[K, V]) Close() error {
	return nil
}
