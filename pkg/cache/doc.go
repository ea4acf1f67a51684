// Package cache provides generic, thread-safe caches for the Ska helper
// family, with built-in statistics and optional Prometheus metrics.
//
// # Overview
//
// Three implementations with different eviction strategies:
//   - Simple: no eviction (manual cleanup only)
//   - LRU: capacity-bounded with least-recently-used eviction
//   - Timed: LRU whose whole contents additionally expire together after a
//     timeout (checked lazily on access, no background goroutine)
//
// plus a Noop cache returned when caching is disabled via configuration.
//
// # Quick Start
//
// LRU cache with a fixed capacity:
//
//	c, err := cache.New[string, *Model](128)
//	if err != nil {
//	    return err
//	}
//	c.Set("acisfp", model)
//	model, err := c.Get("acisfp")
//	if errors.Is(err, skaerrors.ErrKeyNotFound) {
//	    // miss
//	}
//
// A miss from Get is a typed error, never a silent zero value. Callers that
// prefer default-on-miss semantics wrap the cache themselves, either with
// Contains-then-Get or the GetOr helper.
//
// # Recency Semantics
//
// Get and Set both count as a "use" and move the key to the most recently
// used position, so a hot entry survives eviction pressure. Contains and
// Len are pure observers: they never change recency order or statistics.
// When an insert exceeds capacity, exactly one entry is evicted - the least
// recently touched one.
//
// # Memoization
//
// The package grew out of memoizing expensive fetch operations keyed on
// call arguments plus an environment snapshot:
//
//	c, _ := cache.New[string, Table](32)
//	fetch := cache.Memoize(c, func(key string) (Table, error) {
//	    return readTable(key)
//	})
//	t, err := fetch(cache.KeyOf("acisfp", version, cache.EnvKey("SKA_DATA")))
//
// # Observability
//
// Statistics (hits, misses, sets, evictions, size) are always collected
// with atomic counters and available via Stats(). Prometheus export is
// opt-in per instance:
//
//	c, err := cache.New[string, []byte](1000,
//	    cache.WithMetrics[string, []byte](registry, "model_cache"),
//	    cache.WithEvictionCallback[string, []byte](func(key string, _ []byte) {
//	        slog.Debug("evicted", "key", key)
//	    }),
//	)
//
// # Thread Safety
//
// All caches are safe for concurrent use. The LRU path takes a write lock
// on Get because a read refreshes recency; Contains and Len use a read
// lock.
package cache
