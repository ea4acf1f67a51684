package cache

import (
	"sync"
	"time"
)

// timedCache wraps another cache and clears it wholesale once the cache is
// older than the configured timeout. Unlike a per-entry TTL, the entire
// contents expire together; expiry is checked lazily on access so there is
// no background goroutine.
type timedCache[K comparable, V any] struct {
	inner   Cache[K, V]
	timeout time.Duration

	mu      sync.Mutex
	resetAt time.Time
	now     func() time.Time // injectable clock for tests
}

// newTimedCache creates a timed cache around inner. The first expiry fires
// timeout after creation.
func newTimedCache[K comparable, V any](inner Cache[K, V], timeout time.Duration) *timedCache[K, V] {
	now := time.Now
	return &timedCache[K, V]{
		inner:   inner,
		timeout: timeout,
		resetAt: now().Add(timeout),
		now:     now,
	}
}

// clearIfExpired clears the whole inner cache when the timeout has elapsed
// since the last clear (or creation).
func (c *timedCache[K, V]) clearIfExpired() {
	c.mu.Lock()
	expired := !c.now().Before(c.resetAt)
	if expired {
		c.resetAt = c.now().Add(c.timeout)
	}
	c.mu.Unlock()

	if expired {
		c.inner.Clear()
	}
}

func (c *timedCache[K, V]) Get(key K) (V, error) {
	c.clearIfExpired()
	return c.inner.Get(key)
}

func (c *timedCache[K, V]) Set(key K, value V) bool {
	c.clearIfExpired()
	return c.inner.Set(key, value)
}

func (c *timedCache[K, V]) Contains(key K) bool {
	c.clearIfExpired()
	return c.inner.Contains(key)
}

func (c *timedCache[K, V]) Delete(key K) bool {
	c.clearIfExpired()
	return c.inner.Delete(key)
}

func (c *timedCache[K, V]) Clear() {
	c.mu.Lock()
	c.resetAt = c.now().Add(c.timeout)
	c.mu.Unlock()
	c.inner.Clear()
}

func (c *timedCache[K, V]) Len() int {
	c.clearIfExpired()
	return c.inner.Len()
}

func (c *timedCache[K, V]) Keys() []K {
	c.clearIfExpired()
	return c.inner.Keys()
}

func (c *timedCache[K, V]) Stats() *Statistics {
	return c.inner.Stats()
}

func (c *timedCache[K, V]) Close() error {
	return c.inner.Close()
}
