// Package metrics exposes Prometheus instruments for the gateway.
//
// All collectors register on the default registry at init time via
// promauto, so importing the package is enough to start collecting.
// Middleware instruments HTTP traffic on a chi router, ObserveResolution
// and SetOpenPools feed the gate and pool-manager observer hooks, and
// Handler serves the scrape endpoint.
//
//	r := chi.NewRouter()
//	r.Use(metrics.Middleware)
//	r.Handle("/metrics", metrics.Handler())
package metrics
