// Package store keeps the ledger in SQLite and serves it as insight feeds.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
	amount TEXT NOT NULL,
	merchant TEXT,
	category TEXT,
	note TEXT,
	deleted_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);

CREATE TABLE IF NOT EXISTS budgets (
	category TEXT NOT NULL,
	period_month TEXT NOT NULL,
	planned TEXT NOT NULL,
	rollover_in TEXT NOT NULL DEFAULT '0',
	rollover_out TEXT NOT NULL DEFAULT '0',
	PRIMARY KEY (category, period_month)
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	amount TEXT NOT NULL,
	next_due_date TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS goals (
	id TEXT PRIMARY KEY,
	title TEXT,
	target_amount TEXT NOT NULL,
	saved_amount TEXT NOT NULL DEFAULT '0',
	active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT,
	updated_at TEXT
);
`

const timestampLayout = "2006-01-02 15:04:05"

// Store is a SQLite-backed ledger.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// Feeds are fetched concurrently; WAL keeps readers from blocking each other.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddTransaction inserts a transaction and returns its id.
func (s *Store) AddTransaction(ctx context.Context, t model.Transaction) (int64, error) {
	return addTransaction(ctx, s.db, t)
}

func addTransaction(ctx context.Context, db execer, t model.Transaction) (int64, error) {
	if t.Type != model.TxIncome && t.Type != model.TxExpense {
		return 0, fmt.Errorf("store: invalid transaction type %q", t.Type)
	}
	var deleted any
	if t.DeletedAt != nil {
		deleted = calendar.In(*t.DeletedAt).Format(timestampLayout)
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO transactions (date, type, amount, merchant, category, note, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		calendar.DayKey(t.Date), string(t.Type), t.Amount.String(),
		nullString(t.Merchant), nullString(t.Category), nullString(t.Note), deleted,
	)
	if err != nil {
		return 0, fmt.Errorf("store: add transaction: %w", err)
	}
	return res.LastInsertId()
}

// SoftDeleteTransaction marks a transaction deleted; deleted rows never reach feeds.
func (s *Store) SoftDeleteTransaction(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		calendar.In(at).Format(timestampLayout), id,
	)
	if err != nil {
		return fmt.Errorf("store: delete transaction %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: delete transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// ErrNotFound is returned when a row to update does not exist.
var ErrNotFound = errors.New("not found")

// UpsertBudget inserts or replaces the budget for a category and month.
func (s *Store) UpsertBudget(ctx context.Context, b model.Budget) error {
	return upsertBudget(ctx, s.db, b)
}

func upsertBudget(ctx context.Context, db execer, b model.Budget) error {
	if _, err := calendar.ParseMonth(b.Month); err != nil {
		return fmt.Errorf("store: budget %s: %w", b.Category, err)
	}
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO budgets (category, period_month, planned, rollover_in, rollover_out)
		 VALUES (?, ?, ?, ?, ?)`,
		b.Category, b.Month, b.Planned.String(), b.RolloverIn.String(), b.RolloverOut.String(),
	)
	if err != nil {
		return fmt.Errorf("store: upsert budget %s %s: %w", b.Category, b.Month, err)
	}
	return nil
}

// AddSubscription inserts a subscription and returns its id.
func (s *Store) AddSubscription(ctx context.Context, sub model.Subscription) (int64, error) {
	return addSubscription(ctx, s.db, sub)
}

func addSubscription(ctx context.Context, db execer, sub model.Subscription) (int64, error) {
	status := sub.Status
	if status == "" {
		status = model.SubscriptionActive
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO subscriptions (name, amount, next_due_date, status) VALUES (?, ?, ?, ?)`,
		nullString(sub.Name), sub.Amount.String(), calendar.DayKey(sub.NextDueDate), string(status),
	)
	if err != nil {
		return 0, fmt.Errorf("store: add subscription: %w", err)
	}
	return res.LastInsertId()
}

// UpsertGoal inserts or replaces a goal.
func (s *Store) UpsertGoal(ctx context.Context, g model.Goal) error {
	return upsertGoal(ctx, s.db, g)
}

func upsertGoal(ctx context.Context, db execer, g model.Goal) error {
	if g.ID == "" {
		return errors.New("store: goal id is required")
	}
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO goals (id, title, target_amount, saved_amount, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, nullString(g.Title), g.Target.String(), g.Saved.String(), g.Active,
		timeOrNull(g.CreatedAt), timeOrNull(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("store: upsert goal %s: %w", g.ID, err)
	}
	return nil
}

// Transactions returns live transactions dated in [from, to).
func (s *Store) Transactions(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, type, amount, COALESCE(merchant, ''), COALESCE(category, ''), COALESCE(note, '')
		 FROM transactions
		 WHERE deleted_at IS NULL AND date >= ? AND date < ?
		 ORDER BY date, id`,
		calendar.DayKey(from), calendar.DayKey(to),
	)
	if err != nil {
		return nil, fmt.Errorf("store: query transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t            model.Transaction
			date, amount string
			typ          string
		)
		if err := rows.Scan(&t.ID, &date, &typ, &amount, &t.Merchant, &t.Category, &t.Note); err != nil {
			return nil, fmt.Errorf("store: scan transaction: %w", err)
		}
		if t.Date, err = calendar.ParseDay(date); err != nil {
			return nil, fmt.Errorf("store: transaction %d: %w", t.ID, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("store: transaction %d amount %q: %w", t.ID, amount, err)
		}
		t.Type = model.TxType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func timeOrNull(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return calendar.In(t).Format(timestampLayout)
}
