// Package metric provides a Prometheus-based metrics registry and HTTP
// endpoint shared by the Ska helper packages.
//
// The registry wraps a private Prometheus registry so that multiple caches
// or other components can export metrics under distinct component labels
// without colliding, and without touching the process-global default
// registry. Go runtime and process collectors are registered automatically.
//
// # Basic Usage
//
//	registry := metric.NewRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        log.Fatal(err)
//	    }
//	}()
//	defer server.Stop()
//
// Components register their own metrics through the Registrar interface:
//
//	counter := prometheus.NewCounter(prometheus.CounterOpts{...})
//	if err := registry.RegisterCounter("model_cache", "hits", counter); err != nil {
//	    return err
//	}
//
// Duplicate registrations are reported as invalid errors rather than
// panicking, so components can be restarted safely after Unregister.
package metric
