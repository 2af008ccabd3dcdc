package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/feed"
	"github.com/pantau-dev/pantau/internal/fields"
)

// weekStartExpr maps a YYYY-MM-DD column to the Monday on or before it.
const weekStartExpr = `date(date, '-6 days', 'weekday 1')`

// Column names below intentionally differ between feeds; the insight
// generators accept every synonym listed in package fields.
var feedQueries = map[feed.Name]struct {
	query string
	args  func(feed.Window) []any
}{
	feed.MerchantWeekly: {
		query: `SELECT COALESCE(merchant, '') AS name,
			` + weekStartExpr + ` AS week_start,
			COUNT(*) AS tx_count,
			SUM(CAST(amount AS REAL)) AS sum
		FROM transactions
		WHERE deleted_at IS NULL AND type = 'expense' AND date >= ? AND date < ?
		GROUP BY 1, 2
		ORDER BY 2, 1`,
		args: func(w feed.Window) []any { return days(w.PrevWeekStart, w.NextWeekStart) },
	},
	feed.CashflowMonthly: {
		query: `SELECT substr(date, 1, 7) AS period_month,
			SUM(CASE WHEN type = 'income' THEN CAST(amount AS REAL) ELSE 0 END) AS inflow,
			SUM(CASE WHEN type = 'expense' THEN CAST(amount AS REAL) ELSE 0 END) AS outflow,
			SUM(CASE WHEN type = 'income' THEN CAST(amount AS REAL) ELSE -CAST(amount AS REAL) END) AS net
		FROM transactions
		WHERE deleted_at IS NULL AND date >= ? AND date < ?
		GROUP BY 1`,
		args: func(w feed.Window) []any { return days(w.MonthStart, w.NextMonthStart) },
	},
	feed.CategoryWeekly: {
		query: `SELECT COALESCE(category, '') AS label,
			` + weekStartExpr + ` AS period,
			SUM(CAST(amount AS REAL)) AS amount
		FROM transactions
		WHERE deleted_at IS NULL AND type = 'expense' AND date >= ? AND date < ?
		GROUP BY 1, 2
		ORDER BY 3 DESC, 1`,
		args: func(w feed.Window) []any { return days(w.WeekStart, w.NextWeekStart) },
	},
	feed.Budgets: {
		query: `SELECT category, period_month, planned, rollover_in, rollover_out
		FROM budgets
		WHERE period_month = ?
		ORDER BY category`,
		args: func(w feed.Window) []any { return []any{w.MonthKey()} },
	},
	feed.RecentExpenses: {
		query: `SELECT id, date, amount, type
		FROM transactions
		WHERE deleted_at IS NULL AND type = 'expense' AND date >= ? AND date <= ?
		ORDER BY date, id`,
		args: func(w feed.Window) []any { return days(w.LookbackStart, w.Today) },
	},
	feed.UpcomingSubscriptions: {
		query: `SELECT id, name, amount AS due_amount, next_due_date, status
		FROM subscriptions
		WHERE status = 'active' AND next_due_date >= ? AND next_due_date <= ?
		ORDER BY next_due_date, id`,
		args: func(w feed.Window) []any { return days(w.Today, w.LookaheadEnd) },
	},
	feed.ActiveGoals: {
		query: `SELECT id, title AS name, target_amount AS target, saved_amount AS saved, updated_at, created_at
		FROM goals
		WHERE active = 1
		ORDER BY id`,
		args: func(feed.Window) []any { return nil },
	},
}

// Fetch implements feed.Source.
func (s *Store) Fetch(ctx context.Context, name feed.Name, w feed.Window) ([]fields.Row, error) {
	q, ok := feedQueries[name]
	if !ok {
		return nil, fmt.Errorf("store: unknown feed %q", name)
	}
	rows, err := s.db.QueryContext(ctx, q.query, q.args(w)...)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", name, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", name, err)
	}
	return out, nil
}

func scanRows(rows *sql.Rows) ([]fields.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []fields.Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(fields.Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func days(from, to time.Time) []any {
	return []any{calendar.DayKey(from), calendar.DayKey(to)}
}
