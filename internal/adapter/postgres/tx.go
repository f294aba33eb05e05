package postgres

import (
	"context"
	"time"

	"github.com/Temutjin2k/forum-api/pkg/metrics"
	"github.com/Temutjin2k/forum-api/pkg/trm"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the part of pgxpool.Pool and pgx.Tx the repositories use.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxorDB returns the transaction stored in ctx by trm, or the pool.
func TxorDB(ctx context.Context, db Querier) Querier {
	tx, ok := ctx.Value(trm.TxKey).(pgx.Tx)
	if !ok {
		return db
	}
	return tx
}

// observe records a query metric; use as defer observe(op, time.Now(), &err).
func observe(op string, start time.Time, err *error) {
	metrics.RecordDatabaseQuery(op, *err, time.Since(start))
}
