package cache

import (
	stderrors "errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/sot/ska-helpers/errors"
)

// testBasicOperations tests basic cache operations.
func testBasicOperations(t *testing.T, cache Cache[string, string]) {
	// Test Get on empty cache
	if value, err := cache.Get("key1"); err == nil {
		t.Errorf("Expected cache miss, got value: %s", value)
	} else if !stderrors.Is(err, errors.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got: %v", err)
	}

	// Test Set and Get
	if isNew := cache.Set("key1", "value1"); !isNew {
		t.Error("Expected new entry creation")
	}

	if value, err := cache.Get("key1"); err != nil || value != "value1" {
		t.Errorf("Expected 'value1', got value: %s, err: %v", value, err)
	}

	// Test Update
	if isNew := cache.Set("key1", "value1_updated"); isNew {
		t.Error("Expected existing entry update")
	}

	if value, err := cache.Get("key1"); err != nil || value != "value1_updated" {
		t.Errorf("Expected 'value1_updated', got value: %s, err: %v", value, err)
	}

	// Test Delete
	if !cache.Delete("key1") {
		t.Error("Expected successful deletion")
	}
	if cache.Delete("key1") {
		t.Error("Expected deletion failure for non-existent key")
	}

	if value, err := cache.Get("key1"); err == nil {
		t.Errorf("Expected cache miss after deletion, got value: %s", value)
	}
}

// testLenOperations tests cache size tracking.
func testLenOperations(t *testing.T, cache Cache[string, string]) {
	if cache.Len() != 0 {
		t.Errorf("Expected len 0, got %d", cache.Len())
	}

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")

	if cache.Len() != 2 {
		t.Errorf("Expected len 2, got %d", cache.Len())
	}

	cache.Delete("key1")

	if cache.Len() != 1 {
		t.Errorf("Expected len 1, got %d", cache.Len())
	}
}

// testKeysOperation tests cache key listing.
func testKeysOperation(t *testing.T, cache Cache[string, string]) {
	if len(cache.Keys()) != 0 {
		t.Errorf("Expected no keys, got %v", cache.Keys())
	}

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")

	keys := cache.Keys()
	if len(keys) != 2 {
		t.Errorf("Expected 2 keys, got %d", len(keys))
	}

	keyMap := make(map[string]bool)
	for _, key := range keys {
		keyMap[key] = true
	}

	if !keyMap["key1"] || !keyMap["key2"] {
		t.Errorf("Expected keys 'key1' and 'key2', got %v", keys)
	}
}

// testClearOperation tests cache clearing.
func testClearOperation(t *testing.T, cache Cache[string, string]) {
	cache.Set("key1", "value1")
	cache.Set("key2", "value2")

	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("Expected len 0 after clear, got %d", cache.Len())
	}

	if value, err := cache.Get("key1"); err == nil {
		t.Errorf("Expected cache miss after clear, got value: %s", value)
	}
}

// testSuite runs common cache tests across all implementations.
func testSuite(t *testing.T, createCache func() Cache[string, string]) {
	t.Run("BasicOperations", func(t *testing.T) {
		cache := createCache()
		defer cache.Close()
		testBasicOperations(t, cache)
	})

	t.Run("Len", func(t *testing.T) {
		cache := createCache()
		defer cache.Close()
		testLenOperations(t, cache)
	})

	t.Run("Keys", func(t *testing.T) {
		cache := createCache()
		defer cache.Close()
		testKeysOperation(t, cache)
	})

	t.Run("Clear", func(t *testing.T) {
		cache := createCache()
		defer cache.Close()
		testClearOperation(t, cache)
	})
}

// TestSimpleCache tests the simple cache implementation.
func TestSimpleCache(t *testing.T) {
	testSuite(t, func() Cache[string, string] {
		cache, err := NewSimple[string, string]()
		if err != nil {
			panic(err)
		}
		return cache
	})

	t.Run("NoEviction", func(t *testing.T) {
		cache, err := NewSimple[string, string]()
		if err != nil {
			t.Fatal(err)
		}
		defer cache.Close()

		// Add many items to ensure no eviction
		for i := 0; i < 1000; i++ {
			cache.Set(fmt.Sprintf("key%d", i), fmt.Sprintf("value%d", i))
		}

		if cache.Len() != 1000 {
			t.Errorf("Expected len 1000, got %d", cache.Len())
		}
	})
}

// TestLRUCache tests the LRU cache implementation.
func TestLRUCache(t *testing.T) {
	testSuite(t, func() Cache[string, string] {
		cache, err := New[string, string](10)
		if err != nil {
			panic(err)
		}
		return cache
	})
}

func TestLRUCache_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -128} {
		if _, err := New[string, string](capacity); err == nil {
			t.Errorf("Expected error for capacity %d", capacity)
		} else if !stderrors.Is(err, errors.ErrInvalidCapacity) {
			t.Errorf("Expected ErrInvalidCapacity for capacity %d, got %v", capacity, err)
		}
	}
}

func TestLRUCache_EvictionOrder(t *testing.T) {
	cache, err := New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3) // evicts a

	if cache.Contains("a") {
		t.Error("Expected 'a' to be evicted")
	}
	if v, err := cache.Get("b"); err != nil || v != 2 {
		t.Errorf("Expected b=2, got %d, err %v", v, err)
	}
	if v, err := cache.Get("c"); err != nil || v != 3 {
		t.Errorf("Expected c=3, got %d, err %v", v, err)
	}

	// b was just read, so c is now LRU
	cache.Get("b")
	cache.Set("d", 4) // evicts c

	if cache.Contains("c") {
		t.Error("Expected 'c' to be evicted after b was touched")
	}
	if !cache.Contains("b") || !cache.Contains("d") {
		t.Errorf("Expected b and d present, keys: %v", cache.Keys())
	}
}

func TestLRUCache_GetRefreshesRecency(t *testing.T) {
	cache, err := New[string, int](3)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	// Touch a, making b the LRU entry
	if _, err := cache.Get("a"); err != nil {
		t.Fatal(err)
	}

	keys := cache.Keys()
	if keys[0] != "a" {
		t.Errorf("Expected 'a' most recent after Get, keys: %v", keys)
	}

	cache.Set("d", 4) // evicts b
	if cache.Contains("b") {
		t.Error("Expected 'b' to be evicted")
	}
}

func TestLRUCache_ContainsDoesNotTouch(t *testing.T) {
	cache, err := New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)

	// Repeated membership checks must not promote a
	for i := 0; i < 10; i++ {
		if !cache.Contains("a") {
			t.Fatal("'a' should be present")
		}
	}
	keysBefore := cache.Keys()

	cache.Contains("a")
	keysAfter := cache.Keys()
	for i := range keysBefore {
		if keysBefore[i] != keysAfter[i] {
			t.Errorf("Contains changed key order: %v -> %v", keysBefore, keysAfter)
		}
	}

	cache.Set("c", 3) // must evict a, despite the Contains calls
	if cache.Contains("a") {
		t.Error("Expected 'a' evicted; Contains must not refresh recency")
	}

	// Contains must not move hit/miss statistics either
	stats := cache.Stats()
	hits, misses := stats.Hits(), stats.Misses()
	cache.Contains("b")
	cache.Contains("nope")
	if stats.Hits() != hits || stats.Misses() != misses {
		t.Error("Contains should not affect hit/miss statistics")
	}
}

func TestLRUCache_UpdateDoesNotEvict(t *testing.T) {
	cache, err := New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)

	// Overwriting an existing key must not change entry count or evict
	cache.Set("a", 10)
	if cache.Len() != 2 {
		t.Errorf("Expected len 2 after update, got %d", cache.Len())
	}
	if !cache.Contains("b") {
		t.Error("Update of existing key must not evict")
	}

	// The update counts as a touch: b is now LRU
	cache.Set("c", 3)
	if cache.Contains("b") {
		t.Error("Expected 'b' evicted; update should refresh recency of 'a'")
	}
	if v, err := cache.Get("a"); err != nil || v != 10 {
		t.Errorf("Expected updated a=10, got %d, err %v", v, err)
	}
}

func TestLRUCache_SameValueSetStillTouches(t *testing.T) {
	cache, err := New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 1) // identical value, still a touch
	cache.Set("c", 3) // evicts b

	if cache.Contains("b") {
		t.Error("Expected 'b' evicted; identical-value Set still counts as a touch")
	}
	if !cache.Contains("a") {
		t.Error("Expected 'a' retained")
	}
}

func TestLRUCache_CapacityOne(t *testing.T) {
	cache, err := New[string, int](1)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key%d", i)
		cache.Set(key, i)
		if cache.Len() != 1 {
			t.Fatalf("Expected len 1, got %d", cache.Len())
		}
		if !cache.Contains(key) {
			t.Fatalf("Expected latest key %s present", key)
		}
	}
}

func TestLRUCache_NeverExceedsCapacity(t *testing.T) {
	const capacity = 7
	cache, err := New[int, int](capacity)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		cache.Set(rng.Intn(50), i)
		if cache.Len() > capacity {
			t.Fatalf("Cache exceeded capacity: len %d > %d", cache.Len(), capacity)
		}
	}
}

func TestLRUCache_EvictionCallback(t *testing.T) {
	var evicted []string
	cache, err := New[string, int](2,
		WithEvictionCallback[string, int](func(key string, _ int) {
			evicted = append(evicted, key)
		}))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3) // evicts a
	cache.Set("d", 4) // evicts b

	if len(evicted) != 2 || evicted[0] != "a" || evicted[1] != "b" {
		t.Errorf("Expected evictions [a b], got %v", evicted)
	}

	if cache.Stats().Evictions() != 2 {
		t.Errorf("Expected 2 evictions in stats, got %d", cache.Stats().Evictions())
	}
}

func TestLRUCache_Stats(t *testing.T) {
	cache, err := New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Get("a")
	cache.Get("missing")

	stats := cache.Stats()
	if stats.Hits() != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.Hits())
	}
	if stats.Misses() != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses())
	}
	if stats.Sets() != 1 {
		t.Errorf("Expected 1 set, got %d", stats.Sets())
	}
	if ratio := stats.HitRatio(); ratio != 0.5 {
		t.Errorf("Expected hit ratio 0.5, got %f", ratio)
	}
}

func TestLRUCache_ConcurrentAccess(t *testing.T) {
	cache, err := New[int, int](64)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(seed)))
			for i := 0; i < 500; i++ {
				key := rng.Intn(100)
				switch rng.Intn(3) {
				case 0:
					cache.Set(key, i)
				case 1:
					_, _ = cache.Get(key)
				case 2:
					cache.Contains(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if cache.Len() > 64 {
		t.Errorf("Cache exceeded capacity under concurrency: %d", cache.Len())
	}
}

func TestNoopCache(t *testing.T) {
	cache := NewNoop[string, string]()

	if cache.Set("a", "1") {
		t.Error("Noop Set should report no new entry")
	}
	if _, err := cache.Get("a"); !stderrors.Is(err, errors.ErrKeyNotFound) {
		t.Errorf("Noop Get should always miss, got %v", err)
	}
	if cache.Contains("a") || cache.Len() != 0 || cache.Stats() != nil {
		t.Error("Noop cache should be empty and stat-less")
	}
}
