package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authentication outcomes recorded by the request gate.
const (
	AuthAnonymous         = "anonymous"
	AuthAuthenticated     = "authenticated"
	AuthMalformed         = "malformed"
	AuthInvalidSignature  = "invalid_signature"
	AuthExpired           = "expired"
	AuthPrincipalNotFound = "principal_not_found"
	AuthLookupFailed      = "lookup_failed"
	AuthPanic             = "panic"
)

// Label values used when a request does not map to a known route or method.
const (
	RouteOther  = "other"
	MethodOther = "OTHER"
)

var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// NormalizeMethod keeps the method label bounded: anything outside the
// standard HTTP methods is reported as OTHER.
func NormalizeMethod(method string) string {
	if _, ok := knownMethods[method]; ok {
		return method
	}
	return MethodOther
}

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "route", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "route", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Auth metrics
	AuthenticationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authentications_total",
			Help: "Outcome of the per-request token authentication",
		},
		[]string{"outcome"},
	)

	AuthorizationDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denials_total",
			Help: "Requests rejected by the route policy",
		},
		[]string{"method", "reason"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	// Database metrics
	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// RecordHTTPMetrics records HTTP request metrics. route is the registered
// pattern that served the request, not the raw path.
func RecordHTTPMetrics(service, method, route string, statusCode int, duration time.Duration) {
	if route == "" {
		route = RouteOther
	}
	method = NormalizeMethod(method)
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, route, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, route, status).Observe(duration.Seconds())
}

func RecordAuthentication(outcome string) {
	AuthenticationsTotal.WithLabelValues(outcome).Inc()
}

func RecordAuthorizationDenial(method, reason string) {
	AuthorizationDenialsTotal.WithLabelValues(NormalizeMethod(method), reason).Inc()
}

func RecordLogin(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	LoginsTotal.WithLabelValues(result).Inc()
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueriesTotal.WithLabelValues(operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
