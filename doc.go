// Package skahelpers is a collection of small, self-contained utility
// packages shared across the Ska operations tooling family.
//
// # Philosophy
//
// This module deliberately avoids being a framework. Each package solves one
// narrow problem with a small, stable surface, so that downstream tools can
// pick exactly what they need without dragging in the rest:
//
//   - pkg/cache: capacity-bounded LRU and timed caches with built-in
//     statistics and optional Prometheus metrics
//   - pkg/retry: retry policies with exponential backoff, jitter, failure
//     history and exhaustion aggregation
//   - pkg/lazy: lazy one-shot initialization for expensive values and maps
//   - errors: three-class error classification (transient/invalid/fatal)
//     shared by all packages
//   - metric: Prometheus registry and metrics HTTP endpoint
//
// # Composition
//
// The packages compose without knowing about each other. A typical consumer
// wraps an expensive, flaky fetch in both primitives:
//
//	fetch := retry.Wrap(policy, func(ctx context.Context) (*Model, error) {
//	    return client.FetchModel(ctx, name)
//	})
//
//	models, _ := cache.New[string, *Model](128)
//	get := cache.Memoize(models, func(key string) (*Model, error) {
//	    return fetch(context.Background())
//	})
//
// The cache never calls the retrier and the retrier never caches; the caller
// decides how to stack them.
//
// # Observability
//
// Cache statistics are always collected (atomic counters, no configuration
// required). Prometheus export is opt-in per cache instance via
// cache.WithMetrics and served by metric.Server. Retry emits warnings
// through any logger with a Warn method; *slog.Logger works directly.
package skahelpers
