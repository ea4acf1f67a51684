package cache

import (
	"testing"

	"github.com/sot/ska-helpers/metric"
)

// gatherValue finds a metric family by name and returns the first sample value.
func gatherValue(t *testing.T, registry *metric.Registry, name string) (float64, bool) {
	t.Helper()
	families, err := registry.PrometheusRegistry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue(), true
			}
			if m.GetGauge() != nil {
				return m.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func TestCacheMetrics_Export(t *testing.T) {
	registry := metric.NewRegistry()

	cache, err := New[string, int](2,
		WithMetrics[string, int](registry, "test_cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3) // evicts a
	cache.Get("b")
	cache.Get("missing")

	checks := []struct {
		metricName string
		expected   float64
	}{
		{"ska_cache_sets_total", 3},
		{"ska_cache_hits_total", 1},
		{"ska_cache_misses_total", 1},
		{"ska_cache_evictions_total", 1},
		{"ska_cache_size", 2},
	}

	for _, check := range checks {
		value, found := gatherValue(t, registry, check.metricName)
		if !found {
			t.Errorf("Metric %s not exported", check.metricName)
			continue
		}
		if value != check.expected {
			t.Errorf("Metric %s = %v, expected %v", check.metricName, value, check.expected)
		}
	}
}

func TestCacheMetrics_DuplicateName(t *testing.T) {
	registry := metric.NewRegistry()

	if _, err := New[string, int](2, WithMetrics[string, int](registry, "dup")); err != nil {
		t.Fatal(err)
	}

	// Second cache under the same name must fail registration cleanly
	if _, err := New[string, int](2, WithMetrics[string, int](registry, "dup")); err == nil {
		t.Error("Expected duplicate metrics registration to fail")
	}
}

func TestCacheMetrics_Disabled(t *testing.T) {
	// No registry: stats still work, no panic
	cache, err := New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	cache.Set("a", 1)
	cache.Get("a")

	if cache.Stats().Hits() != 1 {
		t.Error("Stats must work without metrics")
	}
}
