package insight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/feed"
	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/id"
	"github.com/pantau-dev/pantau/internal/model"
)

// GoodDay praises a day whose spend is below the trailing 14-day average.
// The window ends today, inclusive.
func GoodDay(expenses []fields.Row, now time.Time) []model.Insight {
	today := calendar.StartOfDay(now)
	start := calendar.AddDays(today, -(feed.LookbackDays - 1))

	total, todaySpend := 0.0, 0.0
	for _, row := range expenses {
		if !isLiveExpense(row) {
			continue
		}
		date, ok := fields.PickDate(row, fields.ExpenseDate)
		if !ok {
			continue
		}
		day := calendar.StartOfDay(date)
		if day.Before(start) || day.After(today) {
			continue
		}
		amount := math.Abs(fields.PickNumber(row, fields.ExpenseAmount))
		total += amount
		if day.Equal(today) {
			todaySpend += amount
		}
	}

	avg := total / feed.LookbackDays
	if !fields.Finite(total) || total <= 0 || todaySpend >= avg {
		return nil
	}

	dayKey := calendar.DayKey(today)
	msg := fmt.Sprintf("Hari yang hemat! Pengeluaran hari ini %s, di bawah rata-rata 14 hari %s.", Rupiah(todaySpend), Rupiah(avg))
	return []model.Insight{candidate(
		id.FormatInsightID(string(model.TypeGood), "good-day", dayKey),
		model.TypeGood, model.SeverityLow, msg, today,
		map[string]any{
			"date":        dayKey,
			"today":       todaySpend,
			"average_14d": avg,
			"total_14d":   total,
		},
	)}
}

// isLiveExpense drops soft-deleted rows and rows typed as anything but expense.
func isLiveExpense(row fields.Row) bool {
	if _, ok := fields.PickString(row, fields.ExpenseDeleted); ok {
		return false
	}
	if _, ok := fields.PickDate(row, fields.ExpenseDeleted); ok {
		return false
	}
	if typ, ok := fields.PickString(row, fields.ExpenseType); ok {
		return strings.EqualFold(typ, string(model.TxExpense))
	}
	return true
}

// CashflowSign reports whether this month's income covers its expenses.
// The net field wins when present; otherwise net is income - expense.
func CashflowSign(rows []fields.Row, now time.Time) []model.Insight {
	month := calendar.MonthKey(now)

	found := false
	income, expense, net := 0.0, 0.0, 0.0
	for _, row := range rows {
		d, ok := fields.PickDate(row, fields.CashflowMonth)
		if !ok || calendar.MonthKey(d) != month {
			continue
		}
		found = true
		in := fields.PickNumber(row, fields.CashflowIncome)
		out := fields.PickNumber(row, fields.CashflowExpense)
		income += in
		expense += out
		if fields.Has(row, fields.CashflowNet) {
			net += fields.PickNumber(row, fields.CashflowNet)
		} else {
			net += in - out
		}
	}
	if !found || net == 0 || !fields.Finite(income, expense, net) {
		return nil
	}

	meta := map[string]any{
		"month":   month,
		"income":  income,
		"expense": expense,
		"net":     net,
	}
	ts := calendar.StartOfMonth(now)
	if net > 0 {
		msg := fmt.Sprintf("Arus kas bulan ini positif, surplus %s.", Rupiah(net))
		return []model.Insight{candidate(
			id.FormatInsightID(string(model.TypeGood), "cashflow", month),
			model.TypeGood, model.SeverityLow, msg, ts, meta,
		)}
	}
	deficit := -net
	meta["deficit"] = deficit
	msg := fmt.Sprintf("Pengeluaran bulan ini melebihi pemasukan sebesar %s.", Rupiah(deficit))
	return []model.Insight{candidate(
		id.FormatInsightID(string(model.TypeWarn), "cashflow", month),
		model.TypeWarn, model.SeverityMed, msg, ts, meta,
	)}
}
