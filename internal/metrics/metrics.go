package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// DeletionRequestsResolved counts resolved deletion requests by outcome
	// (approved, rejected, cancelled, auto_approved).
	DeletionRequestsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deletion_requests_resolved_total",
			Help: "Total number of deletion requests resolved by outcome",
		},
		[]string{"outcome"},
	)

	// StalePendingRequests is the number of pending deletion requests older
	// than the configured stale age, as of the last scheduler sweep.
	StalePendingRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "deletion_requests_stale_pending",
			Help: "Pending deletion requests older than the stale threshold",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, DeletionRequestsResolved, StalePendingRequests)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /requests/123/approve -> /requests/{id}/approve.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncResolved increments the resolved-requests counter for the given outcome.
func IncResolved(outcome string) {
	DeletionRequestsResolved.WithLabelValues(outcome).Inc()
}

// SetStalePending records the latest stale-pending sweep result.
func SetStalePending(n int) {
	StalePendingRequests.Set(float64(n))
}
