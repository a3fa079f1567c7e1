package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/metrics"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("records matched route pattern", func(t *testing.T) {
		t.Parallel()

		r := chi.NewRouter()
		r.Use(metrics.Middleware)
		r.Get("/tenants/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/tenants/{id}", "204")
		before := testutil.ToFloat64(counter)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tenants/42", nil))

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, before+1, testutil.ToFloat64(counter))
		assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.HTTPRequestDuration, "tenantgate_http_request_duration_seconds"), 1)
	})

	t.Run("records error status", func(t *testing.T) {
		t.Parallel()

		r := chi.NewRouter()
		r.Use(metrics.Middleware)
		r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "500")
		before := testutil.ToFloat64(counter)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})

	t.Run("labels unmatched requests as unknown", func(t *testing.T) {
		t.Parallel()

		r := chi.NewRouter()
		r.Use(metrics.Middleware)
		r.Get("/known", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unknown", "404")
		before := testutil.ToFloat64(counter)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})

	t.Run("works outside a chi router", func(t *testing.T) {
		t.Parallel()

		h := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "unknown", "200")
		before := testutil.ToFloat64(counter)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/raw", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})
}

func TestObserveResolution(t *testing.T) {
	t.Parallel()

	counter := metrics.TenantResolutionsTotal.WithLabelValues("inactive")
	before := testutil.ToFloat64(counter)

	metrics.ObserveResolution("inactive")
	metrics.ObserveResolution("inactive")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestSetOpenPools(t *testing.T) {
	t.Parallel()

	metrics.SetOpenPools(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.TenantPoolsOpen))

	metrics.SetOpenPools(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.TenantPoolsOpen))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tenantgate_tenant_pools_open")
}
