package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType distinguishes money in from money out.
type TxType string

const (
	TxIncome  TxType = "income"
	TxExpense TxType = "expense"
)

// Transaction is one ledger row. Amount is always positive; Type carries the sign.
type Transaction struct {
	ID        int64
	Date      time.Time // civil day in calendar.Zone
	Type      TxType
	Amount    decimal.Decimal
	Merchant  string
	Category  string
	Note      string
	DeletedAt *time.Time // soft delete
}

// Signed returns Amount negated for expenses.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TxExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
