package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/usecase"
)

// DefaultLockTimeout bounds how long a transaction waits for a wallet row
// held by another transfer.
const DefaultLockTimeout = 5 * time.Second

type txBeginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager opens the read-committed transactions every transfer and
// scheduler unit runs in.
type TxManager struct {
	pool        txBeginner
	lockTimeout time.Duration
}

// NewTxManager creates a TxManager that applies DefaultLockTimeout.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	m := newTxManagerWithPool(pool)
	m.lockTimeout = DefaultLockTimeout
	return m
}

func newTxManagerWithPool(pool txBeginner) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a transaction. When a lock timeout is set, a FOR UPDATE that
// waits longer fails with 55P03, which the Retrier treats as transient.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if m.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}

	return &Tx{tx: tx}, nil
}

// Tx is the usecase.Transaction handed to repositories.
type Tx struct {
	tx pgx.Tx
}

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback is a no-op after Commit, so callers always defer it.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// PgxTx exposes the pgx transaction to the generated queries.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
