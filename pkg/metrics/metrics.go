// Package metrics exposes the request- and transition-level Prometheus
// counters named in spec §6 ("/metrics, request + transition
// counters"), registered against the default registry on import.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts every handled request by method, route
	// pattern, and response status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipengine_http_requests_total",
		Help: "Total HTTP requests handled, by method, route, and status.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks handler latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shipengine_http_request_duration_seconds",
		Help:    "HTTP handler latency in seconds, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// StatusTransitionsTotal counts every accepted lifecycle status
	// transition by origin and destination status label.
	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipengine_status_transitions_total",
		Help: "Accepted shipment status transitions, by from/to status.",
	}, []string{"from", "to"})

	// StatusTransitionRejectionsTotal counts rejected transition
	// attempts, which spec §7 surfaces as 200 ERROR envelopes rather
	// than failed requests, so they need their own counter to be
	// observable at all.
	StatusTransitionRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipengine_status_transition_rejections_total",
		Help: "Rejected shipment status transition attempts.",
	}, []string{"reason"})

	// ShipmentsCreatedTotal counts shipment creation by source (manual,
	// bl_ingestion, migration), mirroring domain.Creator.Source.
	ShipmentsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipengine_shipments_created_total",
		Help: "Shipments created, by creation source.",
	}, []string{"source"})

	// BLExtractionsTotal and BLExtractionErrorsTotal track C5's LLM
	// extraction calls and their outcome.
	BLExtractionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipengine_bl_extractions_total",
		Help: "Total BL extraction calls issued to the LLM client.",
	})
	BLExtractionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipengine_bl_extraction_errors_total",
		Help: "Failed BL extraction calls, by error type.",
	}, []string{"error_type"})
	BLExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shipengine_bl_extraction_duration_seconds",
		Help:    "LLM BL extraction call latency in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// CacheHitsTotal and CacheMissesTotal instrument the two
	// process-local TTL caches (spec §5), by cache name.
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipengine_cache_hits_total",
		Help: "Cache hits, by cache name.",
	}, []string{"cache"})
	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipengine_cache_misses_total",
		Help: "Cache misses, by cache name.",
	}, []string{"cache"})
)

// RecordHTTPRequest records one completed request's outcome and
// latency.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordStatusTransition records one accepted transition.
func RecordStatusTransition(from, to string) {
	StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordStatusTransitionRejection records one rejected transition
// attempt, tagged with a short reason (e.g. "terminal", "non_adjacent",
// "wrong_path").
func RecordStatusTransitionRejection(reason string) {
	StatusTransitionRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordShipmentCreated records one new shipment by creation source.
func RecordShipmentCreated(source string) {
	ShipmentsCreatedTotal.WithLabelValues(source).Inc()
}

// RecordBLExtraction records one LLM extraction attempt's latency.
func RecordBLExtraction(duration time.Duration) {
	BLExtractionsTotal.Inc()
	BLExtractionDuration.Observe(duration.Seconds())
}

// RecordBLExtractionError records one failed LLM extraction attempt.
func RecordBLExtractionError(errorType string) {
	BLExtractionErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordCacheHit and RecordCacheMiss instrument a named cache's reads.
func RecordCacheHit(cache string)  { CacheHitsTotal.WithLabelValues(cache).Inc() }
func RecordCacheMiss(cache string) { CacheMissesTotal.WithLabelValues(cache).Inc() }

// Timer measures elapsed wall-clock time for a single operation, then
// records it against the matching histogram on completion — the same
// start-then-record idiom as the teacher's own metrics package.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// RecordHTTPRequest records the elapsed duration against the HTTP
// request metrics for the given method/route/status.
func (t *Timer) RecordHTTPRequest(method, route, status string) {
	RecordHTTPRequest(method, route, status, t.Elapsed())
}

// RecordBLExtraction records the elapsed duration as one BL extraction
// call.
func (t *Timer) RecordBLExtraction() {
	RecordBLExtraction(t.Elapsed())
}
