package cache

import (
	"container/list"
	"sync"

	"github.com/sot/ska-helpers/errors"
)

// lruEntry represents an entry in the LRU cache.
type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// lruCache is a thread-safe LRU (Least Recently Used) cache implementation.
// It evicts the least recently used entry when the fixed capacity is
// exceeded. Both reads and writes refresh an entry's recency position;
// Contains does not.
type lruCache[K comparable, V any] struct {
	mu       sync.RWMutex
	capacity int
	items    map[K]*list.Element // key -> list element
	order    *list.List          // doubly-linked list for LRU ordering
	stats    *Statistics         // ALWAYS initialized
	metrics  *cacheMetrics       // Optional, if metrics enabled
	evictFn  EvictCallback[K, V] // Optional callback
}

// newLRUCache creates a new LRU cache with the specified fixed capacity.
// Returns an error if the capacity is invalid or metrics registration fails.
func newLRUCache[K comparable, V any](capacity int, opts *cacheOptions[K, V]) (*lruCache[K, V], error) {
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}

	// Stats are ALWAYS initialized - observability is not optional
	stats := NewStatistics()

	var metrics *cacheMetrics
	// Optionally expose stats as Prometheus metrics
	if opts.metricsReg != nil && opts.metricsName != "" {
		var err error
		metrics, err = newCacheMetrics(opts.metricsReg, opts.metricsName)
		if err != nil {
			// Return classified error instead of silently ignoring
			return nil, errors.WrapTransient(err, "cache", "newLRUCache", "metrics registration")
		}
	}

	return &lruCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
		stats:    stats,   // ALWAYS present
		metrics:  metrics, // Optional
		evictFn:  opts.evictCallback,
	}, nil
}

// Get retrieves a value by key and marks it as recently used.
// A miss returns errors.ErrKeyNotFound; the recency order is unchanged.
func (c *lruCache[K, V]) Get(key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.items[key]
	if !exists {
		var zero V
		c.stats.Miss()
		if c.metrics != nil {
			c.metrics.recordMiss()
		}
		return zero, errors.ErrKeyNotFound
	}

	// Move to front (most recently used)
	c.order.MoveToFront(element)

	entry := element.Value.(*lruEntry[K, V])
	c.stats.Hit()
	if c.metrics != nil {
		c.metrics.recordHit()
	}

	return entry.value, nil
}

// Set stores a value with the given key and marks it as recently used.
// Updating an existing key never triggers eviction; inserting a new key
// beyond capacity evicts exactly the least recently used entry.
func (c *lruCache[K, V]) Set(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Check if key already exists
	if element, exists := c.items[key]; exists {
		// Update existing entry. Even an identical value counts as a touch.
		entry := element.Value.(*lruEntry[K, V])
		entry.value = value
		c.order.MoveToFront(element)

		c.stats.Set()
		if c.metrics != nil {
			c.metrics.recordSet()
		}
		return false // existing entry was updated
	}

	// Create new entry
	entry := &lruEntry[K, V]{key: key, value: value}
	element := c.order.PushFront(entry)
	c.items[key] = element

	// Check if we need to evict
	if len(c.items) > c.capacity {
		c.evictLRU()
	}

	c.stats.Set()
	c.stats.UpdateSize(int64(len(c.items)))

	if c.metrics != nil {
		c.metrics.recordSet()
		c.metrics.updateSize(len(c.items))
	}

	return true // new entry was created
}

// Contains reports whether the key is present without touching recency
// order or hit/miss statistics. Membership checks are not a "use".
func (c *lruCache[K, V]) Contains(key K) bool {
	c.mu.RLock()
	_, exists := c.items[key]
	c.mu.RUnlock()
	return exists
}

// Delete removes an entry by key.
func (c *lruCache[K, V]) Delete(key K) bool {
	var evictKey K
	var evictValue V
	var shouldEvict bool

	c.mu.Lock()
	element, exists := c.items[key]
	if !exists {
		c.mu.Unlock()
		return false
	}

	// Capture eviction data before removing
	if c.evictFn != nil {
		entry := element.Value.(*lruEntry[K, V])
		evictKey = entry.key
		evictValue = entry.value
		shouldEvict = true
	}

	c.removeElementUnsafe(element)

	c.stats.Delete()
	c.stats.UpdateSize(int64(len(c.items)))

	if c.metrics != nil {
		c.metrics.recordDelete()
		c.metrics.updateSize(len(c.items))
	}

	c.mu.Unlock()

	// Call eviction callback outside lock to prevent deadlock
	if shouldEvict {
		c.evictFn(evictKey, evictValue)
	}

	return true
}

// Clear removes all entries from the cache.
func (c *lruCache[K, V]) Clear() {
	// Collect items to evict before releasing lock
	var evictItems []lruEntry[K, V]

	c.mu.Lock()
	if c.evictFn != nil {
		evictItems = make([]lruEntry[K, V], 0, len(c.items))
		for element := c.order.Back(); element != nil; element = element.Prev() {
			entry := element.Value.(*lruEntry[K, V])
			evictItems = append(evictItems, *entry)
		}
	}

	c.items = make(map[K]*list.Element)
	c.order.Init()

	c.stats.UpdateSize(0)

	if c.metrics != nil {
		c.metrics.updateSize(0)
	}
	c.mu.Unlock()

	// Call eviction callbacks outside lock to prevent deadlock
	if c.evictFn != nil {
		for _, entry := range evictItems {
			c.evictFn(entry.key, entry.value)
		}
	}
}

// Len returns the current number of entries in the cache, always <= capacity.
func (c *lruCache[K, V]) Len() int {
	c.mu.RLock()
	size := len(c.items)
	c.mu.RUnlock()
	return size
}

// Keys returns a slice of all keys currently in the cache.
// Keys are returned in LRU order (most recently used first).
func (c *lruCache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, len(c.items))
	for element := c.order.Front(); element != nil; element = element.Next() {
		entry := element.Value.(*lruEntry[K, V])
		keys = append(keys, entry.key)
	}
	return keys
}

// Stats returns cache statistics.
func (c *lruCache[K, V]) Stats() *Statistics {
	return c.stats
}

// Close shuts down the cache. For LRU cache, this is a no-op.
func (c *lruCache[K, V]) Close() error {
	// LRU cache has no background goroutines to clean up
	return nil
}

// evictLRU removes the least recently used entry from the cache.
// Must be called with mutex held.
func (c *lruCache[K, V]) evictLRU() {
	element := c.order.Back()
	if element == nil {
		return
	}

	// Capture eviction data before removing
	var evictKey K
	var evictValue V
	var shouldEvict bool

	if c.evictFn != nil {
		entry := element.Value.(*lruEntry[K, V])
		evictKey = entry.key
		evictValue = entry.value
		shouldEvict = true
	}

	c.removeElementUnsafe(element)

	c.stats.Eviction()
	if c.metrics != nil {
		c.metrics.recordEviction()
	}

	// Temporarily release lock to call eviction callback
	c.mu.Unlock()
	if shouldEvict {
		c.evictFn(evictKey, evictValue)
	}
	c.mu.Lock()
}

// removeElementUnsafe removes an element from both the list and map.
// Must be called with mutex held. Does NOT call eviction callback - caller is responsible.
func (c *lruCache[K, V]) removeElementUnsafe(element *list.Element) {
	entry := element.Value.(*lruEntry[K, V])
	delete(c.items, entry.key)
	c.order.Remove(element)
}
