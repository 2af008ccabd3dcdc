// Package feed names the upstream data sources the insight engine reads and
// fetches them concurrently with per-feed failure isolation.
package feed

import (
	"context"
	"time"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/fields"
)

// Name identifies one upstream feed.
type Name string

const (
	MerchantWeekly        Name = "merchant_weekly"
	CashflowMonthly       Name = "cashflow_monthly"
	CategoryWeekly        Name = "category_weekly"
	Budgets               Name = "budgets"
	RecentExpenses        Name = "recent_expenses"
	UpcomingSubscriptions Name = "upcoming_subscriptions"
	ActiveGoals           Name = "active_goals"
)

// All lists every feed in declaration order. The first-error rule in
// FetchAll follows this order.
var All = []Name{
	MerchantWeekly,
	CashflowMonthly,
	CategoryWeekly,
	Budgets,
	RecentExpenses,
	UpcomingSubscriptions,
	ActiveGoals,
}

const (
	// LookbackDays is the trailing expense window, today inclusive.
	LookbackDays = 14
	// LookaheadDays is how far ahead subscriptions are considered due.
	LookaheadDays = 3
)

// Window holds the query boundaries shared by every feed in one run.
// All values are civil-day boundaries in calendar.Zone.
type Window struct {
	Now            time.Time
	Today          time.Time
	WeekStart      time.Time
	PrevWeekStart  time.Time
	NextWeekStart  time.Time
	LookbackStart  time.Time // today - 13 days
	LookaheadEnd   time.Time // today + 3 days
	MonthStart     time.Time
	NextMonthStart time.Time
}

// NewWindow computes the run's query boundaries from now.
func NewWindow(now time.Time) Window {
	today := calendar.StartOfDay(now)
	week := calendar.StartOfWeek(today)
	return Window{
		Now:            now,
		Today:          today,
		WeekStart:      week,
		PrevWeekStart:  calendar.AddDays(week, -7),
		NextWeekStart:  calendar.AddDays(week, 7),
		LookbackStart:  calendar.AddDays(today, -(LookbackDays - 1)),
		LookaheadEnd:   calendar.AddDays(today, LookaheadDays),
		MonthStart:     calendar.StartOfMonth(today),
		NextMonthStart: calendar.StartOfNextMonth(today),
	}
}

// MonthKey returns the current month as "YYYY-MM".
func (w Window) MonthKey() string {
	return calendar.MonthKey(w.MonthStart)
}

// Source fetches the raw rows of one feed for a window.
type Source interface {
	Fetch(ctx context.Context, name Name, w Window) ([]fields.Row, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, name Name, w Window) ([]fields.Row, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, name Name, w Window) ([]fields.Row, error) {
	return f(ctx, name, w)
}
