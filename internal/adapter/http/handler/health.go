package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/forum-api/pkg/logger"
	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
)

const pingTimeout = 2 * time.Second

// Pinger checks a dependency, the pgx pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	serviceName string
	version     string
	db          Pinger
	log         logger.Logger
}

func NewHealth(serviceName, version string, db Pinger, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		version:     version,
		db:          db,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns UP when the service and its database are reachable
// @Tags         Actuator
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /actuator/health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	status, dbStatus, code := "UP", "UP", http.StatusOK
	if a.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := a.db.Ping(pingCtx); err != nil {
			a.log.Warn(ctx, "database ping failed", "error", err.Error())
			status, dbStatus, code = "DOWN", "DOWN", http.StatusServiceUnavailable
		}
	}

	response := envelope{
		"status": status,
		"components": envelope{
			"db": envelope{"status": dbStatus},
		},
	}

	if err := writeJSON(w, code, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
	}
}

// Info godoc
// @Summary      Service info
// @Tags         Actuator
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /actuator/info [get]
func (a *Health) Info(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"app": envelope{
			"name":    a.serviceName,
			"version": a.version,
		},
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.log.Error(r.Context(), "info", err)
	}
}
