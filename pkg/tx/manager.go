package tx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelink/woosync/pkg/interfaces"
)

// txKeyType is a private context-key type to avoid collisions.
type txKeyType struct{}

var txKey = txKeyType{}

// Manager controls the lifecycle of database transactions.
type Manager interface {
	// Do runs fn inside a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. The context
	// passed to fn carries the transaction itself, so repositories that
	// resolve their executor from the context join it transparently.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type pgxManager struct {
	pool   *pgxpool.Pool
	logger interfaces.LoggerPort
}

// NewManager creates a transaction manager backed by a pgx pool.
func NewManager(pool *pgxpool.Pool, logger interfaces.LoggerPort) Manager {
	return &pgxManager{pool: pool, logger: logger}
}

func (m *pgxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tx.Begin failed: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey, tx)

	// Rollback after a commit is a no-op; the deferred call covers
	// panics inside fn and commit failures.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(txCtx); err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			m.logger.Warn("failed to rollback transaction",
				interfaces.LogField{Key: "rollback_error", Value: rollbackErr.Error()},
				interfaces.LogField{Key: "original_error", Value: err.Error()},
			)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit failed: %w", err)
	}

	return nil
}

// FromContext extracts the transaction from the context, when present.
// Repositories use it to pick the transaction over the plain pool.
func FromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}
