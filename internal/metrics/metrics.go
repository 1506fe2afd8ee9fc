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

	// AuthAttempts counts login and register calls by outcome.
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Login and register attempts by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// RecordsWritten counts successful resource writes by collection and action.
	RecordsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_records_written_total",
			Help: "Resource records created, updated or deleted",
		},
		[]string{"resource", "action"},
	)
)

var (
	idPathSegment = regexp.MustCompile(`/([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}|[0-9]+)(/|$)`)
	initOnce      sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuthAttempts, RecordsWritten)
	})
}

// NormalizePath reduces cardinality by replacing UUID and numeric path segments with {id}.
// E.g. /api/books/0b6c...e1 -> /api/books/{id}.
func NormalizePath(path string) string {
	return idPathSegment.ReplaceAllString(path, "/{id}$2")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncAuthAttempt counts one login or register call. outcome is success, rejected or error.
func IncAuthAttempt(operation, outcome string) {
	AuthAttempts.WithLabelValues(operation, outcome).Inc()
}

// IncRecordsWritten counts one successful create, update or delete.
func IncRecordsWritten(resource, action string) {
	RecordsWritten.WithLabelValues(resource, action).Inc()
}
