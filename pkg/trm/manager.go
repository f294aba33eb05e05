package trm

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Beginner starts transactions; *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Manager implements a transaction manager using pgx
// It provides methods to execute functions within a transaction context.
type Manager struct {
	db Beginner
}

// New returns a new Transaction Manager
func New(db Beginner) *Manager {
	return &Manager{db: db}
}

// Unique key for TX
type ctxKeyTx struct{}
type ctxTxOptions struct{}

var TxKey = ctxKeyTx{}
var txOptions = ctxTxOptions{}

// Do executes fn within a transaction. A transaction already present in ctx is reused
// and left for its owner to finish; otherwise a new one is started, rolled back if fn
// fails or panics and committed otherwise.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if tx, ok := ctx.Value(TxKey).(pgx.Tx); ok && tx != nil {
		return fn(ctx)
	}

	var tx pgx.Tx
	if opt, ok := ctx.Value(txOptions).(pgx.TxOptions); ok {
		tx, err = m.db.BeginTx(ctx, opt)
	} else {
		tx, err = m.db.Begin(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to start new transaction: %w", err)
	}
	txCtx := context.WithValue(ctx, TxKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p) // re-throw panic after rollback
		}

		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = fmt.Errorf("failed to rollback tx: %v (original error: %w)", rbErr, err)
			}
			return
		}

		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("failed to commit tx: %w", commitErr)
		}
	}()

	return fn(txCtx)
}

// DoReadOnly executes the provided function within a read-only transaction context.
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := pgx.TxOptions{
		AccessMode: pgx.ReadOnly,
	}

	return m.Do(WithOptionsCtx(ctx, opts), fn)
}

func WithOptionsCtx(ctx context.Context, opt pgx.TxOptions) context.Context {
	return context.WithValue(ctx, txOptions, opt)
}
