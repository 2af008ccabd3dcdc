// Package fields extracts typed facts from schema-unstable feed rows.
//
// The same concept may arrive as "total", "total_amount", "amount" or "sum"
// depending on the feed. Each fact is resolved against an ordered synonym
// list; the first key holding a usable value wins. Nothing here panics:
// absent or malformed values yield the documented zero value.
package fields

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantau-dev/pantau/internal/calendar"
)

// Row is one raw upstream record.
type Row = map[string]any

// Keys is an ordered list of accepted field names for one fact.
type Keys []string

// PickNumber returns the first key holding a finite number, else 0.
func PickNumber(row Row, keys Keys) float64 {
	for _, k := range keys {
		v, ok := row[k]
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return 0
}

// PickString returns the first non-empty trimmed string value.
func PickString(row Row, keys Keys) (string, bool) {
	for _, k := range keys {
		switch v := row[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		case []byte:
			if s := strings.TrimSpace(string(v)); s != "" {
				return s, true
			}
		case fmtStringer:
			if s := strings.TrimSpace(v.String()); s != "" {
				return s, true
			}
		case int64:
			return strconv.FormatInt(v, 10), true
		case int:
			return strconv.Itoa(v), true
		case float64:
			if n, ok := integral(v); ok {
				return strconv.FormatInt(n, 10), true
			}
		}
	}
	return "", false
}

// integral reports whether f is a finite whole number that fits an int64
// without loss, as JSON decoders produce for numeric ids.
func integral(f float64) (int64, bool) {
	if _, ok := finite(f); !ok || f != math.Trunc(f) || math.Abs(f) >= 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// StringOr is PickString with a fallback label.
func StringOr(row Row, keys Keys, fallback string) string {
	if s, ok := PickString(row, keys); ok {
		return s
	}
	return fallback
}

// PickDate returns the first key that parses to a valid instant.
// Date-only strings are civil dates in calendar.Zone.
func PickDate(row Row, keys Keys) (time.Time, bool) {
	for _, k := range keys {
		v, ok := row[k]
		if !ok {
			continue
		}
		if t, ok := toTime(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Has reports whether any key holds a non-nil value.
func Has(row Row, keys Keys) bool {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return true
		}
	}
	return false
}

type fmtStringer interface {
	String() string
}

// Finite reports whether every value is neither NaN nor ±Inf.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if _, ok := finite(v); !ok {
			return false
		}
	}
	return true
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case decimal.Decimal:
		return finite(n.InexactFloat64())
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		return parseNumber(n)
	case []byte:
		return parseNumber(string(n))
	}
	return 0, false
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return finite(d.InexactFloat64())
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	calendar.DayLayout,
	calendar.MonthLayout,
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	case int64:
		return fromUnix(t), true
	case int:
		return fromUnix(int64(t)), true
	case float64:
		if _, ok := finite(t); !ok {
			return time.Time{}, false
		}
		return fromUnix(int64(t)), true
	}
	return time.Time{}, false
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, calendar.Zone); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fromUnix treats values beyond year 2286 in seconds as milliseconds.
func fromUnix(n int64) time.Time {
	if n > 1e10 || n < -1e10 {
		return time.UnixMilli(n).In(calendar.Zone)
	}
	return time.Unix(n, 0).In(calendar.Zone)
}
