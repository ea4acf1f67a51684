package cache

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Memoize wraps fn so that results are served from c on repeated calls with
// the same key. Errors from fn are returned to the caller and never cached,
// so a failed computation is retried on the next call.
func Memoize[K comparable, V any](c Cache[K, V], fn func(K) (V, error)) func(K) (V, error) {
	return func(key K) (V, error) {
		if value, err := c.Get(key); err == nil {
			return value, nil
		}

		value, err := fn(key)
		if err != nil {
			var zero V
			return zero, err
		}

		c.Set(key, value)
		return value, nil
	}
}

// KeyOf renders call arguments into a single stable string key. Arguments
// are formatted with %v and joined, so values with the same rendering share
// a key; callers with ambiguous renderings should pre-format themselves.
func KeyOf(parts ...any) string {
	rendered := make([]string, len(parts))
	for i, part := range parts {
		rendered[i] = fmt.Sprintf("%v", part)
	}
	return strings.Join(rendered, "|")
}

// EnvKey returns a snapshot of the named environment variables as a stable
// key fragment. Names are sorted so the fragment does not depend on call
// order; unset variables are distinguished from empty ones. Combined with
// KeyOf, this lets a memoized fetch be keyed on call arguments plus the
// environment configuration in effect at call time.
func EnvKey(names ...string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	rendered := make([]string, len(sorted))
	for i, name := range sorted {
		if value, ok := os.LookupEnv(name); ok {
			rendered[i] = name + "=" + value
		} else {
			rendered[i] = name + "=<unset>"
		}
	}
	return strings.Join(rendered, ";")
}

// GetOr retrieves a value by key, returning fallback on a miss. This is a
// convenience for callers that do not want the typed-miss contract of Get.
func GetOr[K comparable, V any](c Cache[K, V], key K, fallback V) V {
	value, err := c.Get(key)
	if err != nil {
		return fallback
	}
	return value
}
