package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/forum-api/pkg/metrics"
)

// MetricsPath is served by promhttp and excluded from request metrics.
const MetricsPath = "/actuator/prometheus"

// RouteFunc resolves the route label of a request. It must return a value
// from a bounded set, such as the registered pattern or metrics.RouteOther.
type RouteFunc func(r *http.Request) string

// Metrics middleware records HTTP metrics
func (m *Middleware) Metrics(serviceName string, route RouteFunc) func(http.Handler) http.Handler {
	if route == nil {
		route = func(*http.Request) string { return metrics.RouteOther }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == MetricsPath {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
			defer metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

			rw := newStatusRecorder(w)
			next.ServeHTTP(rw, r)

			metrics.RecordHTTPMetrics(serviceName, r.Method, route(r), rw.status, time.Since(start))
		})
	}
}
