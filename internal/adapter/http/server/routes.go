package server

import (
	"net/http"
	"strings"

	"github.com/Temutjin2k/forum-api/docs"
	"github.com/Temutjin2k/forum-api/internal/adapter/http/middleware"
	"github.com/Temutjin2k/forum-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// Authentication
	a.handle("POST /auth", a.routes.auth.Login)

	// Topics
	a.handle("GET /topicos", a.routes.topic.List)
	a.handle("POST /topicos", a.routes.topic.Create)
	a.handle("GET /topicos/{id}", a.routes.topic.Get)
	a.handle("PUT /topicos/{id}", a.routes.topic.Update)
	a.handle("DELETE /topicos/{id}", a.routes.topic.Delete)

	// Actuator
	a.handle("GET /actuator/health", a.routes.health.HealthCheck)
	a.handle("GET /actuator/info", a.routes.health.Info)
	a.handle("GET "+middleware.MetricsPath, promhttp.Handler().ServeHTTP)

	a.setupSwaggerRoutes()
}

// setupSwaggerRoutes serves the Swagger UI and the raw document.
func (a *API) setupSwaggerRoutes() {
	instance := docs.SwaggerInfo.InstanceName()

	a.handle("/swagger/", httpSwagger.Handler(
		httpSwagger.InstanceName(instance),
		httpSwagger.URL("/swagger/doc.json"),
	))
	a.handle("GET /v2/api-docs", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(instance)
		if err != nil {
			a.log.Error(r.Context(), "failed to read swagger doc", err)
			http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	})
}

// handle registers a route and remembers its pattern as a metrics label.
func (a *API) handle(pattern string, h http.HandlerFunc) {
	a.mux.HandleFunc(pattern, h)
	if _, p, ok := strings.Cut(pattern, " "); ok {
		a.patterns[pattern] = p
		return
	}
	a.patterns[pattern] = pattern
}

// route resolves the registered pattern serving r. Paths the mux does not
// route, including redirects and method mismatches, collapse into RouteOther.
func (a *API) route(r *http.Request) string {
	_, pattern := a.mux.Handler(r)
	if p, ok := a.patterns[pattern]; ok {
		return p
	}
	return metrics.RouteOther
}
