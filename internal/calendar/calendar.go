// Package calendar does civil date arithmetic against a fixed UTC+7 offset.
//
// Financial "today", "this week" and "this month" follow the user-facing
// locale, not the host timezone, so every boundary here is computed in Zone.
package calendar

import (
	"fmt"
	"time"
)

// Zone is the fixed UTC+7 civil calendar.
var Zone = time.FixedZone("WIB", 7*60*60)

const (
	// DayLayout formats day keys like "2025-01-31".
	DayLayout = "2006-01-02"
	// MonthLayout formats month keys like "2025-01".
	MonthLayout = "2006-01"
)

// In returns t expressed in Zone.
func In(t time.Time) time.Time {
	return t.In(Zone)
}

// StartOfDay returns midnight of t's civil day.
func StartOfDay(t time.Time) time.Time {
	c := In(t)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, Zone)
}

// StartOfWeek returns midnight of the Monday on or before t's civil day.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return AddDays(d, -offset)
}

// StartOfMonth returns midnight of the first day of t's civil month.
func StartOfMonth(t time.Time) time.Time {
	c := In(t)
	return time.Date(c.Year(), c.Month(), 1, 0, 0, 0, 0, Zone)
}

// StartOfNextMonth returns midnight of the first day of the month after t.
func StartOfNextMonth(t time.Time) time.Time {
	c := In(t)
	return time.Date(c.Year(), c.Month()+1, 1, 0, 0, 0, 0, Zone)
}

// AddDays shifts t by n civil days. The offset is fixed, so this is exact.
func AddDays(t time.Time, n int) time.Time {
	c := In(t)
	return time.Date(c.Year(), c.Month(), c.Day()+n, c.Hour(), c.Minute(), c.Second(), c.Nanosecond(), Zone)
}

// DaysInMonth returns the number of days in t's civil month.
func DaysInMonth(t time.Time) int {
	return StartOfNextMonth(t).AddDate(0, 0, -1).Day()
}

// DaysBetween returns the number of civil days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	d := StartOfDay(b).Sub(StartOfDay(a))
	return int(d.Round(24*time.Hour) / (24 * time.Hour))
}

// DayKey formats t's civil day as "YYYY-MM-DD".
func DayKey(t time.Time) string {
	return In(t).Format(DayLayout)
}

// MonthKey formats t's civil month as "YYYY-MM".
func MonthKey(t time.Time) string {
	return In(t).Format(MonthLayout)
}

// ParseDay parses "YYYY-MM-DD" as midnight in Zone.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing day %q: %w", s, err)
	}
	return t, nil
}

// ParseMonth parses "YYYY-MM" as midnight of the first day in Zone.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, s, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing month %q: %w", s, err)
	}
	return t, nil
}
