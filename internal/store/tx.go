package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pantau-dev/pantau/internal/model"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tx writes records inside one database transaction.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn in a transaction, committing if fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if err := fn(&Tx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Checkpoint folds the WAL back into the main database file so the file
// on disk is complete, for example before committing it to git.
func (s *Store) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("store: checkpoint: %w", err)
	}
	return nil
}

// AddTransaction inserts a transaction and returns its id.
func (t *Tx) AddTransaction(ctx context.Context, tr model.Transaction) (int64, error) {
	return addTransaction(ctx, t.tx, tr)
}

// UpsertBudget inserts or replaces a budget.
func (t *Tx) UpsertBudget(ctx context.Context, b model.Budget) error {
	return upsertBudget(ctx, t.tx, b)
}

// AddSubscription inserts a subscription and returns its id.
func (t *Tx) AddSubscription(ctx context.Context, sub model.Subscription) (int64, error) {
	return addSubscription(ctx, t.tx, sub)
}

// UpsertGoal inserts or replaces a goal.
func (t *Tx) UpsertGoal(ctx context.Context, g model.Goal) error {
	return upsertGoal(ctx, t.tx, g)
}
