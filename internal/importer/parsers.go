package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/model"
)

// Import column synonyms. Headers are matched case-insensitively.
var (
	txDate     = fields.Keys{"date", "tanggal"}
	txType     = fields.Keys{"type", "jenis"}
	txAmount   = fields.Keys{"amount", "jumlah", "nominal"}
	txMerchant = fields.Keys{"merchant", "payee", "description"}
	txCategory = fields.Keys{"category", "kategori"}
	txNote     = fields.Keys{"note", "notes", "catatan"}

	budgetCategory = fields.Keys{"category", "kategori"}
	budgetMonth    = fields.Keys{"month", "period_month", "bulan"}

	goalActive = fields.Keys{"active", "aktif"}
)

// TransactionParser parses income/expense ledger exports.
// Negative amounts without a type column are treated as expenses.
type TransactionParser struct{}

// Format returns the parser name.
func (p *TransactionParser) Format() string { return "transactions" }

// Parse reads transaction rows.
func (p *TransactionParser) Parse(r io.Reader) (*Batch, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	b := &Batch{}
	for _, row := range rows {
		t, err := parseTransaction(row)
		if err != nil {
			return nil, rowError(row, err)
		}
		b.Transactions = append(b.Transactions, t)
	}
	return b, nil
}

func parseTransaction(row fields.Row) (model.Transaction, error) {
	date, err := requireDay(row, txDate)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := requireAmount(row, txAmount)
	if err != nil {
		return model.Transaction{}, err
	}

	typ := model.TxExpense
	if amount.IsPositive() {
		typ = model.TxIncome
	}
	if s, ok := fields.PickString(row, txType); ok {
		switch strings.ToLower(s) {
		case "expense", "pengeluaran", "debit":
			typ = model.TxExpense
		case "income", "pemasukan", "credit":
			typ = model.TxIncome
		default:
			return model.Transaction{}, fmt.Errorf("unknown type %q", s)
		}
	}

	merchant, _ := fields.PickString(row, txMerchant)
	category, _ := fields.PickString(row, txCategory)
	note, _ := fields.PickString(row, txNote)
	return model.Transaction{
		Date:     date,
		Type:     typ,
		Amount:   amount.Abs(),
		Merchant: merchant,
		Category: category,
		Note:     note,
	}, nil
}

// BudgetParser parses monthly category budgets.
type BudgetParser struct{}

// Format returns the parser name.
func (p *BudgetParser) Format() string { return "budgets" }

// Parse reads budget rows.
func (p *BudgetParser) Parse(r io.Reader) (*Batch, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	b := &Batch{}
	for _, row := range rows {
		bud, err := parseBudget(row)
		if err != nil {
			return nil, rowError(row, err)
		}
		b.Budgets = append(b.Budgets, bud)
	}
	return b, nil
}

func parseBudget(row fields.Row) (model.Budget, error) {
	category, err := requireString(row, budgetCategory)
	if err != nil {
		return model.Budget{}, err
	}
	month, err := requireString(row, budgetMonth)
	if err != nil {
		return model.Budget{}, err
	}
	planned, err := requireAmount(row, fields.BudgetPlanned)
	if err != nil {
		return model.Budget{}, err
	}
	in, err := optionalAmount(row, fields.BudgetRolloverIn)
	if err != nil {
		return model.Budget{}, err
	}
	out, err := optionalAmount(row, fields.BudgetRolloverOut)
	if err != nil {
		return model.Budget{}, err
	}
	return model.Budget{Category: category, Month: month, Planned: planned, RolloverIn: in, RolloverOut: out}, nil
}

// SubscriptionParser parses recurring charges.
type SubscriptionParser struct{}

// Format returns the parser name.
func (p *SubscriptionParser) Format() string { return "subscriptions" }

// Parse reads subscription rows.
func (p *SubscriptionParser) Parse(r io.Reader) (*Batch, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	b := &Batch{}
	for _, row := range rows {
		sub, err := parseSubscription(row)
		if err != nil {
			return nil, rowError(row, err)
		}
		b.Subscriptions = append(b.Subscriptions, sub)
	}
	return b, nil
}

func parseSubscription(row fields.Row) (model.Subscription, error) {
	due, err := requireDay(row, fields.SubscriptionDue)
	if err != nil {
		return model.Subscription{}, err
	}
	amount, err := requireAmount(row, fields.SubscriptionAmount)
	if err != nil {
		return model.Subscription{}, err
	}
	name, _ := fields.PickString(row, fields.SubscriptionName)

	status := model.SubscriptionActive
	if s, ok := fields.PickString(row, fields.SubscriptionStatus); ok {
		status = model.SubscriptionStatus(strings.ToLower(s))
		switch status {
		case model.SubscriptionActive, model.SubscriptionPaused, model.SubscriptionCancelled:
		default:
			return model.Subscription{}, fmt.Errorf("unknown status %q", s)
		}
	}
	return model.Subscription{Name: name, Amount: amount, NextDueDate: due, Status: status}, nil
}

// GoalParser parses savings goals.
type GoalParser struct{}

// Format returns the parser name.
func (p *GoalParser) Format() string { return "goals" }

// Parse reads goal rows.
func (p *GoalParser) Parse(r io.Reader) (*Batch, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	b := &Batch{}
	for _, row := range rows {
		g, err := parseGoal(row)
		if err != nil {
			return nil, rowError(row, err)
		}
		b.Goals = append(b.Goals, g)
	}
	return b, nil
}

func parseGoal(row fields.Row) (model.Goal, error) {
	goalID, err := requireString(row, fields.GoalID)
	if err != nil {
		return model.Goal{}, err
	}
	target, err := requireAmount(row, fields.GoalTarget)
	if err != nil {
		return model.Goal{}, err
	}
	saved, err := optionalAmount(row, fields.GoalSaved)
	if err != nil {
		return model.Goal{}, err
	}
	title, _ := fields.PickString(row, fields.GoalTitle)

	active := true
	if s, ok := fields.PickString(row, goalActive); ok {
		if active, err = strconv.ParseBool(s); err != nil {
			return model.Goal{}, fmt.Errorf("parsing active %q: %w", s, err)
		}
	}
	return model.Goal{
		ID:        goalID,
		Title:     title,
		Target:    target,
		Saved:     saved,
		Active:    active,
		CreatedAt: optionalTime(row, fields.Keys{"created_at"}),
		UpdatedAt: optionalTime(row, fields.Keys{"updated_at"}),
	}, nil
}
