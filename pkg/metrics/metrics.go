package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tenantgate"

var (
	// HTTPRequestsTotal counts finished requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// TenantResolutionsTotal counts gate decisions by outcome.
	TenantResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenant",
			Name:      "resolutions_total",
			Help:      "Total number of tenant resolution attempts by outcome",
		},
		[]string{"outcome"},
	)

	// TenantPoolsOpen reports the number of open tenant database pools.
	TenantPoolsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tenant",
			Name:      "pools_open",
			Help:      "Number of open tenant database pools",
		},
	)
)

// ObserveResolution records one gate decision. Plug it into the gate's
// observer hook.
func ObserveResolution(outcome string) {
	TenantResolutionsTotal.WithLabelValues(outcome).Inc()
}

// SetOpenPools records the current open pool count. Plug it into the pool
// manager's observer hook.
func SetOpenPools(open int) {
	TenantPoolsOpen.Set(float64(open))
}

// Handler exposes the default prometheus registry in text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
