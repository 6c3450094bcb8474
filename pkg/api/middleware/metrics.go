// Package middleware holds the chi middleware stack C6's router
// installs: request metrics, authentication/claims, and CORS. Each
// middleware is a plain func(http.Handler) http.Handler, chi's native
// shape.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/affreight/shipengine/pkg/metrics"
)

// HTTPMetrics records every request's method, matched route pattern,
// status, and duration into pkg/metrics, mirroring the
// gateway_http_request_duration_seconds labeling the teacher's own
// HTTPMetrics middleware used before its source was pruned from this
// tree — only the destination counters changed.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.NewTimer()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := strconv.Itoa(ww.Status())
		timer.RecordHTTPRequest(r.Method, route, status)
	})
}

// routePattern returns the chi route pattern matched for r ("/shipments/{id}")
// rather than the literal path, so per-route cardinality stays bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
