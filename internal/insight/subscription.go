package insight

import (
	"fmt"
	"strings"
	"time"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/feed"
	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/id"
	"github.com/pantau-dev/pantau/internal/model"
)

// subsMaxOverdueDays bounds how stale an unpaid subscription may be and
// still be reported.
const subsMaxOverdueDays = 7

// SubscriptionDue reports the single active subscription with the nearest
// due date within the lookahead. Due today or overdue is high severity;
// anything overdue by more than subsMaxOverdueDays is ignored.
func SubscriptionDue(subs []fields.Row, now time.Time) []model.Insight {
	today := calendar.StartOfDay(now)

	var (
		best     fields.Row
		bestDue  time.Time
		bestDays int
	)
	for _, row := range subs {
		if status, ok := fields.PickString(row, fields.SubscriptionStatus); ok &&
			!strings.EqualFold(status, string(model.SubscriptionActive)) {
			continue
		}
		due, ok := fields.PickDate(row, fields.SubscriptionDue)
		if !ok {
			continue
		}
		days := calendar.DaysBetween(today, due)
		if days > feed.LookaheadDays || days < -subsMaxOverdueDays {
			continue
		}
		if best == nil || days < bestDays {
			best, bestDue, bestDays = row, calendar.StartOfDay(due), days
		}
	}
	if best == nil {
		return nil
	}

	name := fields.StringOr(best, fields.SubscriptionName, fields.FallbackSubscription)
	amount := fields.PickNumber(best, fields.SubscriptionAmount)
	dueKey := calendar.DayKey(bestDue)

	sev := model.SeverityMed
	var msg string
	switch {
	case bestDays == 0:
		sev = model.SeverityHigh
		msg = fmt.Sprintf("Tagihan %s sebesar %s jatuh tempo hari ini.", name, Rupiah(amount))
	case bestDays < 0:
		sev = model.SeverityHigh
		msg = fmt.Sprintf("Tagihan %s sebesar %s sudah lewat jatuh tempo %d hari.", name, Rupiah(amount), -bestDays)
	default:
		msg = fmt.Sprintf("Tagihan %s sebesar %s jatuh tempo dalam %d hari (%s).", name, Rupiah(amount), bestDays, dueKey)
	}

	return []model.Insight{candidate(
		id.FormatInsightID(string(model.TypeSubs), "due", name),
		model.TypeSubs, sev, msg, bestDue,
		map[string]any{
			"name":     name,
			"amount":   amount,
			"due_date": dueKey,
			"days":     bestDays,
		},
	)}
}
