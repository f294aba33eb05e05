package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/forum-api/config"
	"github.com/Temutjin2k/forum-api/internal/adapter/http/middleware"
	httpserver "github.com/Temutjin2k/forum-api/internal/adapter/http/server"
	"github.com/Temutjin2k/forum-api/internal/adapter/postgres"
	"github.com/Temutjin2k/forum-api/internal/service/auth"
	"github.com/Temutjin2k/forum-api/internal/service/authz"
	"github.com/Temutjin2k/forum-api/internal/service/topic"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	postgresclient "github.com/Temutjin2k/forum-api/pkg/postgres"
	"github.com/Temutjin2k/forum-api/pkg/trm"
)

type App struct {
	postgresDB *postgresclient.PostgreDB
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

// NewApplication connects to the database and wires repositories, services
// and the HTTP server.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	key, err := auth.NewSigningKey(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("signing key: %w", err)
	}

	policy, err := authz.NewTable(authz.DefaultRules()...)
	if err != nil {
		return nil, fmt.Errorf("route policy: %w", err)
	}

	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	// repositories
	userRepo := postgres.NewUserRepo(db.Pool)
	topicRepo := postgres.NewTopicRepo(db.Pool)
	courseRepo := postgres.NewCourseRepo(db.Pool)

	// services
	issuer := auth.NewTokenIssuer(key, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	validator := auth.NewTokenValidator(key)
	loginSvc := auth.NewLoginService(userRepo, issuer, log)
	topicSvc := topic.NewService(topicRepo, courseRepo, trm.New(db.Pool), log)

	mid := middleware.NewMiddleware(validator, userRepo, policy, cfg.Auth.LookupTimeout, log)

	server, err := httpserver.New(cfg, loginSvc, topicSvc, db.Pool, mid, log)
	if err != nil {
		db.Pool.Close()
		return nil, err
	}

	return &App{
		postgresDB: db,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Run serves until the server fails or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "forum api closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	a.log.Info(ctx, "service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	a.postgresDB.Pool.Close()
}
