package cache

import "github.com/sot/ska-helpers/metric"

// Option configures cache behavior using the functional options pattern.
type Option[K comparable, V any] func(*cacheOptions[K, V])

// cacheOptions holds internal configuration for cache instances.
// Stats are ALWAYS collected - they are not optional.
// Metrics are optional and exposed via WithMetrics().
type cacheOptions[K comparable, V any] struct {
	// metricsReg is optional - if provided, cache stats are also exposed as Prometheus metrics
	metricsReg *metric.Registry

	// metricsName is used as the component label for Prometheus metrics
	metricsName string

	// evictCallback is called when items are evicted from the cache
	evictCallback EvictCallback[K, V]
}

// WithMetrics enables Prometheus metrics export for cache statistics.
// If registry is nil or name is empty, this option is ignored.
func WithMetrics[K comparable, V any](registry *metric.Registry, name string) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		if registry != nil && name != "" {
			opts.metricsReg = registry
			opts.metricsName = name
		}
	}
}

// WithEvictionCallback sets a callback function that is called when items
// are evicted. The callback receives the key and value of the evicted entry.
func WithEvictionCallback[K comparable, V any](callback EvictCallback[K, V]) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		opts.evictCallback = callback
	}
}

// applyOptions applies functional options to create final cache configuration.
// This is an internal helper used by cache constructors.
func applyOptions[K comparable, V any](options ...Option[K, V]) *cacheOptions[K, V] {
	opts := &cacheOptions[K, V]{}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
