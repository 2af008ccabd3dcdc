package insight

import (
	"fmt"
	"time"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/id"
	"github.com/pantau-dev/pantau/internal/model"
)

// burnHighOverage is the projected overage, as a share of plan, at which a
// burn-rate warning becomes high severity.
const burnHighOverage = 0.20

// BurnRate compares the month-to-date daily spend against the budgeted daily
// rate and projects the month-end total.
//
// Planned budget is the sum of planned + rollover_in - rollover_out over the
// current month's budget rows. Month-to-date expense comes from the current
// month's cashflow row.
func BurnRate(budgets, cashflow []fields.Row, now time.Time) []model.Insight {
	month := calendar.MonthKey(now)

	planned := 0.0
	for _, row := range budgets {
		if !inMonth(row, fields.BudgetMonth, month) {
			continue
		}
		planned += fields.PickNumber(row, fields.BudgetPlanned) +
			fields.PickNumber(row, fields.BudgetRolloverIn) -
			fields.PickNumber(row, fields.BudgetRolloverOut)
	}
	if planned <= 0 {
		return nil
	}

	expense := 0.0
	for _, row := range cashflow {
		if d, ok := fields.PickDate(row, fields.CashflowMonth); ok && calendar.MonthKey(d) == month {
			expense += fields.PickNumber(row, fields.CashflowExpense)
		}
	}
	if expense <= 0 {
		return nil
	}

	elapsed := float64(calendar.In(now).Day())
	days := float64(calendar.DaysInMonth(now))
	actualRate := expense / elapsed
	plannedRate := planned / days
	if actualRate <= plannedRate {
		return nil
	}

	projected := actualRate * days
	overage := projected - planned
	if !fields.Finite(planned, expense, projected, overage/planned*100) {
		return nil
	}
	sev := model.SeverityMed
	if overage >= planned*burnHighOverage {
		sev = model.SeverityHigh
	}

	msg := fmt.Sprintf("Laju belanja %s/hari melampaui rencana %s/hari. Proyeksi akhir bulan %s, lebih %s dari anggaran.",
		Rupiah(actualRate), Rupiah(plannedRate), Rupiah(projected), Rupiah(overage))
	return []model.Insight{candidate(
		id.FormatInsightID(string(model.TypeBudget), "burn-rate", month),
		model.TypeBudget, sev, msg, now,
		map[string]any{
			"month":         month,
			"planned":       planned,
			"spent":         expense,
			"actual_rate":   actualRate,
			"planned_rate":  plannedRate,
			"projected":     projected,
			"overage":       overage,
			"overage_pct":   percent(overage / planned),
			"days_elapsed":  int(elapsed),
			"days_in_month": int(days),
		},
	)}
}

// inMonth reports whether row belongs to month. Rows without a month field
// are assumed to be pre-filtered by the feed.
func inMonth(row fields.Row, keys fields.Keys, month string) bool {
	d, ok := fields.PickDate(row, keys)
	if !ok {
		return !fields.Has(row, keys)
	}
	return calendar.MonthKey(d) == month
}
