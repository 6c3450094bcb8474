package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/affreight/shipengine/pkg/metrics"
)

func TestHTTPMetricsRecordsMatchedRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(HTTPMetrics)
	router.Get("/shipments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	initial := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/shipments/{id}", "200"))

	req := httptest.NewRequest(http.MethodGet, "/shipments/ship-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/shipments/{id}", "200"))
	assert.Equal(t, initial+1.0, after)
}

func TestRoutePatternFallsBackToPathOutsideRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/shipments/ship-1", nil)
	assert.Equal(t, "/shipments/ship-1", routePattern(req))
}
