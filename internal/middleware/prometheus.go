package middleware

import (
	"net/http"
	"time"

	"github.com/crucial707/catalog/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Prometheus records request duration and count, labelled by the matched chi
// route pattern so every record id shares one series. Scrapes of /metrics are
// not counted.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := wrap(w)
		next.ServeHTTP(rec, r)

		route := routeLabel(r)
		if route == "/metrics" {
			return
		}
		metrics.RecordRequest(r.Method, route, rec.status, time.Since(start).Seconds())
	})
}

// routeLabel is read after the handler ran, when chi has the full pattern.
// Unmatched paths are passed through for RecordRequest to normalize.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}
