package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Temutjin2k/forum-api/config"
	"github.com/Temutjin2k/forum-api/internal/adapter/http/handler"
	"github.com/Temutjin2k/forum-api/internal/adapter/http/middleware"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
)

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	// patterns maps registered mux patterns to their route label.
	patterns map[string]string

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	auth   *handler.Auth
	topic  *handler.Topic
	health *handler.Health
}

func New(
	cfg config.Config,
	authService handler.AuthService,
	topicService handler.TopicService,
	db handler.Pinger,
	m *middleware.Middleware,
	logger logger.Logger,
) (*API, error) {
	if authService == nil || topicService == nil {
		return nil, errors.New("auth and topic services are required")
	}
	if m == nil {
		return nil, errors.New("middleware is required")
	}

	api := &API{
		mux:      http.NewServeMux(),
		patterns: make(map[string]string),
		routes: &handlers{
			auth:   handler.NewAuth(authService, logger),
			topic:  handler.NewTopic(topicService, logger),
			health: handler.NewHealth(cfg.Service.Name, cfg.Service.Version, db, logger),
		},
		m:    m,
		addr: cfg.HTTP.Addr(),
		cfg:  cfg,
		log:  logger,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.GetSlogLogger().Handler(), slog.LevelError),
	}

	return api, nil
}

// Handler returns the mux behind the request pipeline. Order matters: the
// gate must run before the policy, and both after recovery and logging.
func (a *API) Handler() http.Handler {
	return middleware.Chain(a.mux,
		a.m.Recover,
		a.m.RequestID,
		a.m.Logging,
		a.m.Metrics(a.cfg.Service.Name, a.route),
		a.m.Auth,
		a.m.Authorize,
	)
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}
