package insight

import (
	"fmt"
	"time"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/id"
	"github.com/pantau-dev/pantau/internal/model"
)

const (
	trendMinCount      = 2
	trendMinIncrease   = 50.0
	trendHighIncrease  = 100.0
	trendHighWeekTotal = 750_000.0
	percentEpsilon     = 1e-9
)

type merchantWeeks struct {
	name      string
	cur, prev float64
	curTotal  float64
}

// MerchantTrend flags merchants whose transaction count jumped week over week.
// Rows without a count are counted as single transactions.
func MerchantTrend(rows []fields.Row, now time.Time) []model.Insight {
	week := calendar.StartOfWeek(now)
	prevWeek := calendar.AddDays(week, -7)

	var order []string
	byKey := make(map[string]*merchantWeeks)
	for _, row := range rows {
		date, ok := fields.PickDate(row, fields.MerchantWeek)
		if !ok {
			continue
		}
		ws := calendar.StartOfWeek(date)
		if !ws.Equal(week) && !ws.Equal(prevWeek) {
			continue
		}

		name := fields.StringOr(row, fields.MerchantName, fields.FallbackLabel)
		key := id.Slug(name)
		m, ok := byKey[key]
		if !ok {
			m = &merchantWeeks{name: name}
			byKey[key] = m
			order = append(order, key)
		}

		count := 1.0
		if fields.Has(row, fields.MerchantCount) {
			count = fields.PickNumber(row, fields.MerchantCount)
		}
		if ws.Equal(week) {
			m.cur += count
			m.curTotal += fields.PickNumber(row, fields.MerchantTotal)
		} else {
			m.prev += count
		}
	}

	var out []model.Insight
	for _, key := range order {
		m := byKey[key]
		if m.prev <= 0 || m.cur < trendMinCount {
			continue
		}
		increase := (m.cur - m.prev) / m.prev * 100
		if !fields.Finite(increase, m.cur, m.curTotal) || increase < trendMinIncrease-percentEpsilon {
			continue
		}

		sev := model.SeverityMed
		if increase >= trendHighIncrease-percentEpsilon || m.curTotal >= trendHighWeekTotal {
			sev = model.SeverityHigh
		}
		pct := percent(increase / 100)
		msg := fmt.Sprintf("Transaksi di %s naik %d%% minggu ini (%g kali, minggu lalu %g kali).", m.name, pct, m.cur, m.prev)
		out = append(out, candidate(
			id.FormatInsightID(string(model.TypeTrend), "merchant", m.name),
			model.TypeTrend, sev, msg, week,
			map[string]any{
				"merchant":       m.name,
				"current_count":  m.cur,
				"previous_count": m.prev,
				"increase_pct":   pct,
				"current_total":  m.curTotal,
				"week_start":     calendar.DayKey(week),
			},
		))
	}
	return out
}

// TopCategory picks the category with the largest spend this calendar week.
// Rows not tagged to the current week are ignored.
func TopCategory(rows []fields.Row, now time.Time) []model.Insight {
	week := calendar.StartOfWeek(now)

	var order []string
	names := make(map[string]string)
	totals := make(map[string]float64)
	for _, row := range rows {
		date, ok := fields.PickDate(row, fields.CategoryWeek)
		if !ok || !calendar.StartOfWeek(date).Equal(week) {
			continue
		}
		name := fields.StringOr(row, fields.CategoryName, fields.FallbackLabel)
		key := id.Slug(name)
		if _, ok := names[key]; !ok {
			names[key] = name
			order = append(order, key)
		}
		totals[key] += fields.PickNumber(row, fields.CategoryTotal)
	}

	best := ""
	for _, key := range order {
		if !fields.Finite(totals[key]) {
			continue
		}
		if totals[key] > 0 && (best == "" || totals[key] > totals[best]) {
			best = key
		}
	}
	if best == "" {
		return nil
	}

	name, total := names[best], totals[best]
	msg := fmt.Sprintf("Kategori terbesar minggu ini: %s dengan total %s.", name, Rupiah(total))
	return []model.Insight{candidate(
		id.FormatInsightID(string(model.TypeTrend), "top-category", name),
		model.TypeTrend, model.SeverityLow, msg, week,
		map[string]any{
			"category":   name,
			"total":      total,
			"week_start": calendar.DayKey(week),
		},
	)}
}
