package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgreDB struct {
	Pool     *pgxpool.Pool
	DBConfig *pgxpool.Config
}

type Config interface {
	GetDSN() string
}

// PoolConfig is implemented by configs that tune the connection pool.
type PoolConfig interface {
	Config
	PoolLimits() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration)
}

func New(ctx context.Context, config Config) (*PostgreDB, error) {
	dbConfig, err := pgxpool.ParseConfig(config.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if pc, ok := config.(PoolConfig); ok {
		maxConns, minConns, maxLifetime, maxIdle := pc.PoolLimits()
		if maxConns > 0 {
			dbConfig.MaxConns = maxConns
		}
		if minConns > 0 {
			dbConfig.MinConns = minConns
		}
		if maxLifetime > 0 {
			dbConfig.MaxConnLifetime = maxLifetime
		}
		if maxIdle > 0 {
			dbConfig.MaxConnIdleTime = maxIdle
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	// Ping the database
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgreDB{
		Pool:     pool,
		DBConfig: dbConfig,
	}, nil
}
