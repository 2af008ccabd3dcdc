package insight

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/model"
)

// Rupiah formats an amount as "Rp1.250.000", rounded to whole rupiah.
// Non-finite amounts render as "Rp?".
func Rupiah(v float64) string {
	if !fields.Finite(v) {
		return "Rp?"
	}
	d := decimal.NewFromFloat(v).Round(0)
	neg := d.IsNegative()
	digits := d.Abs().StringFixed(0)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// percent rounds a ratio to a whole percentage, e.g. 0.505 -> 51.
// Non-finite ratios yield 0.
func percent(ratio float64) int64 {
	if !fields.Finite(ratio * 100) {
		return 0
	}
	return decimal.NewFromFloat(ratio * 100).Round(0).IntPart()
}

func candidate(id string, typ model.Type, sev model.Severity, msg string, ts time.Time, meta map[string]any) model.Insight {
	if meta == nil {
		meta = make(map[string]any, 1)
	}
	if !ts.IsZero() {
		meta[model.MetaTimestamp] = ts.UnixMilli()
	}
	return model.Insight{
		ID:       id,
		Type:     typ,
		Severity: sev,
		Message:  msg,
		Meta:     meta,
	}
}
