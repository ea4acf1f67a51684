package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sot/ska-helpers/errors"
)

// Strategy defines the eviction strategy for the cache.
type Strategy string

const (
	// StrategySimple uses no eviction policy.
	StrategySimple Strategy = "simple"

	// StrategyLRU uses Least Recently Used eviction based on capacity.
	StrategyLRU Strategy = "lru"

	// StrategyTimed clears the whole cache once it is older than Timeout.
	StrategyTimed Strategy = "timed"
)

// Config contains configuration for cache creation.
type Config struct {
	// Enabled determines if caching is enabled.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Strategy determines the eviction strategy.
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// Capacity is the maximum number of entries (for LRU and Timed caches).
	Capacity int `json:"capacity" yaml:"capacity"`

	// Timeout is the whole-cache expiry period (for Timed caches).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Strategy: StrategyLRU,
		Capacity: 128,
		Timeout:  time.Hour,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil // No validation needed if disabled
	}

	switch c.Strategy {
	case StrategySimple:
		// No additional validation needed
	case StrategyLRU:
		if c.Capacity <= 0 {
			return errors.WrapInvalid(errors.ErrInvalidCapacity, "cache", "Validate",
				fmt.Sprintf("capacity must be positive for LRU cache, got %d", c.Capacity))
		}
	case StrategyTimed:
		if c.Capacity <= 0 {
			return errors.WrapInvalid(errors.ErrInvalidCapacity, "cache", "Validate",
				fmt.Sprintf("capacity must be positive for timed cache, got %d", c.Capacity))
		}
		if c.Timeout <= 0 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
				fmt.Sprintf("timeout must be positive for timed cache, got %v", c.Timeout))
		}
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("unknown cache strategy: %s", c.Strategy))
	}

	return nil
}

// NewFromConfig creates a cache based on the provided configuration.
// Returns a disabled cache (NewNoop) if config.Enabled is false.
// Additional functional options can be passed to configure metrics and callbacks.
func NewFromConfig[K comparable, V any](config Config, options ...Option[K, V]) (Cache[K, V], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "cache", "NewFromConfig", "config validation")
	}

	if !config.Enabled {
		return NewNoop[K, V](), nil
	}

	switch config.Strategy {
	case StrategySimple:
		return NewSimple[K, V](options...)

	case StrategyLRU:
		return New[K, V](config.Capacity, options...)

	case StrategyTimed:
		return NewTimed[K, V](config.Capacity, config.Timeout, options...)

	default:
		msg := fmt.Sprintf("unsupported cache strategy: %s", config.Strategy)
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "NewFromConfig", msg)
	}
}

// New creates a capacity-bounded LRU cache. Capacity is fixed for the
// lifetime of the cache and must be at least 1.
// Stats are always enabled for observability. Use WithMetrics() to also
// export them as Prometheus metrics.
func New[K comparable, V any](capacity int, options ...Option[K, V]) (Cache[K, V], error) {
	opts := applyOptions(options...)
	return newLRUCache[K, V](capacity, opts)
}

// NewSimple creates a new cache with no eviction policy.
// Stats are always enabled for observability. Use WithMetrics() to also
// export them as Prometheus metrics.
func NewSimple[K comparable, V any](options ...Option[K, V]) (Cache[K, V], error) {
	opts := applyOptions(options...)
	return newSimpleCache[K, V](opts)
}

// NewTimed creates a capacity-bounded LRU cache whose entire contents are
// additionally discarded once the cache is older than timeout. Expiry is
// checked lazily on access; no background goroutine is started.
func NewTimed[K comparable, V any](capacity int, timeout time.Duration, options ...Option[K, V]) (Cache[K, V], error) {
	if timeout <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "NewTimed",
			fmt.Sprintf("timeout must be positive, got %v", timeout))
	}
	inner, err := New[K, V](capacity, options...)
	if err != nil {
		return nil, err
	}
	return newTimedCache(inner, timeout), nil
}

// NewNoop creates a cache that does nothing (always returns cache misses).
// This is useful when caching is disabled via configuration.
func NewNoop[K comparable, V any]() Cache[K, V] {
	return &noopCache[K, V]{}
}

// noopCache is a cache implementation that does nothing.
type noopCache[K comparable, V any] struct{}

func (c *noopCache[K, V]) Get(_ K) (V, error) {
	var zero V
	return zero, errors.ErrKeyNotFound
}

func (c *noopCache[K, V]) Set(_ K, _ V) bool { return false }

func (c *noopCache[K, V]) Contains(_ K) bool { return false }

func (c *noopCache[K, V]) Delete(_ K) bool { return false }

func (c *noopCache[K, V]) Clear() {}

func (c *noopCache[K, V]) Len() int { return 0 }

func (c *noopCache[K, V]) Keys() []K { return nil }

func (c *noopCache[K, V]) Stats() *Statistics { return nil }

func (c *noopCache[K, V]) Close() error { return nil }

// UnmarshalJSON implements custom JSON unmarshaling for Config to support
// duration strings (e.g., "1h", "5m", "30s") in addition to nanosecond integers.
func (c *Config) UnmarshalJSON(data []byte) error {
	// Use an alias to avoid infinite recursion
	type Alias Config

	// Temporary struct that accepts the timeout as either int64 or string
	aux := &struct {
		Timeout json.RawMessage `json:"timeout,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.Timeout) > 0 {
		timeout, err := parseDurationField(aux.Timeout, "timeout")
		if err != nil {
			return err
		}
		c.Timeout = timeout
	}

	return nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Config so that the
// timeout accepts duration strings as well as integer nanoseconds.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type Alias Config

	aux := &struct {
		Timeout yaml.Node `yaml:"timeout"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}

	if err := node.Decode(aux); err != nil {
		return err
	}

	if aux.Timeout.Kind != 0 {
		var str string
		if err := aux.Timeout.Decode(&str); err == nil {
			timeout, err := time.ParseDuration(str)
			if err != nil {
				return fmt.Errorf("invalid duration string for timeout: %w", err)
			}
			c.Timeout = timeout
			return nil
		}

		var nsec int64
		if err := aux.Timeout.Decode(&nsec); err != nil {
			return fmt.Errorf("field timeout must be either a duration string (e.g., '1h') or integer nanoseconds")
		}
		c.Timeout = time.Duration(nsec)
	}

	return nil
}

// parseDurationField parses a JSON duration field that can be either:
// - An integer (nanoseconds) for backward compatibility
// - A string (duration like "1h", "5m", "30s")
func parseDurationField(data json.RawMessage, fieldName string) (time.Duration, error) {
	// Try parsing as string first (most common case)
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		duration, err := time.ParseDuration(str)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string for %s: %w", fieldName, err)
		}
		return duration, nil
	}

	// Fall back to integer (nanoseconds) for backward compatibility
	var nsec int64
	if err := json.Unmarshal(data, &nsec); err != nil {
		return 0, fmt.Errorf("field %s must be either a duration string (e.g., '1h') or integer nanoseconds", fieldName)
	}
	return time.Duration(nsec), nil
}
