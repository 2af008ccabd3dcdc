package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a planned spend for one category and month.
type Budget struct {
	Category    string
	Month       string // "YYYY-MM"
	Planned     decimal.Decimal
	RolloverIn  decimal.Decimal
	RolloverOut decimal.Decimal
}

// Effective returns planned + rollover in - rollover out.
func (b Budget) Effective() decimal.Decimal {
	return b.Planned.Add(b.RolloverIn).Sub(b.RolloverOut)
}

// SubscriptionStatus is the lifecycle state of a recurring charge.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a recurring charge with a next due date.
type Subscription struct {
	ID          int64
	Name        string
	Amount      decimal.Decimal
	NextDueDate time.Time
	Status      SubscriptionStatus
}

// Goal is a savings target.
type Goal struct {
	ID        string
	Title     string
	Target    decimal.Decimal
	Saved     decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
