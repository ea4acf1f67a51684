// Package lazy provides one-shot lazy initialization for values and maps.
//
// Unlike sync.Once, a failed load is not latched: the next access retries
// the load function. Only a successful load is cached for the lifetime of
// the container.
package lazy

import (
	"sync"

	"github.com/sot/ska-helpers/errors"
)

// Value holds a value computed on first access.
type Value[T any] struct {
	mu     sync.Mutex
	load   func() (T, error)
	value  T
	loaded bool
}

// NewValue returns a Value that computes its content with load on first
// access.
func NewValue[T any](load func() (T, error)) *Value[T] {
	return &Value[T]{load: load}
}

// Get returns the value, running the load function if no successful load
// has happened yet.
func (v *Value[T]) Get() (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loaded {
		return v.value, nil
	}

	value, err := v.load()
	if err != nil {
		var zero T
		return zero, err
	}

	v.value = value
	v.loaded = true
	return v.value, nil
}

// Loaded reports whether a successful load has happened.
func (v *Value[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Reset discards the cached value so the next Get loads again.
func (v *Value[T]) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.value = zero
	v.loaded = false
}

// Map is a map whose contents are produced by a load function on first
// access. After a successful load it behaves as a plain in-memory map.
type Map[K comparable, V any] struct {
	mu     sync.Mutex
	load   func() (map[K]V, error)
	items  map[K]V
	loaded bool
}

// NewMap returns a Map populated by load on first access.
func NewMap[K comparable, V any](load func() (map[K]V, error)) *Map[K, V] {
	return &Map[K, V]{load: load}
}

// ensureLoaded runs the load function if needed. Caller holds the lock.
func (m *Map[K, V]) ensureLoaded() error {
	if m.loaded {
		return nil
	}
	items, err := m.load()
	if err != nil {
		return err
	}
	if items == nil {
		items = make(map[K]V)
	}
	m.items = items
	m.loaded = true
	return nil
}

// Get returns the value for key, loading the map first if needed. A
// missing key reports errors.ErrKeyNotFound.
func (m *Map[K, V]) Get(key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if err := m.ensureLoaded(); err != nil {
		return zero, err
	}

	value, exists := m.items[key]
	if !exists {
		return zero, errors.ErrKeyNotFound
	}
	return value, nil
}

// Set stores a value, loading the map first if needed so that stored
// entries are never clobbered by a later load.
func (m *Map[K, V]) Set(key K, value V) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(); err != nil {
		return err
	}
	m.items[key] = value
	return nil
}

// Contains reports whether key is present, loading the map if needed.
func (m *Map[K, V]) Contains(key K) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(); err != nil {
		return false, err
	}
	_, exists := m.items[key]
	return exists, nil
}

// Len returns the entry count, loading the map if needed.
func (m *Map[K, V]) Len() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(); err != nil {
		return 0, err
	}
	return len(m.items), nil
}

// Keys returns all keys in unspecified order, loading the map if needed.
func (m *Map[K, V]) Keys() ([]K, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}
	keys := make([]K, 0, len(m.items))
	for key := range m.items {
		keys = append(keys, key)
	}
	return keys, nil
}
