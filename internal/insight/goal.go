package insight

import (
	"fmt"
	"time"

	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/id"
	"github.com/pantau-dev/pantau/internal/model"
)

// milestones are checked highest first; a goal reports only the top one reached.
var milestones = []int{100, 75, 50, 25}

// GoalMilestones emits one candidate per goal for the highest savings
// milestone it has reached.
func GoalMilestones(goals []fields.Row, now time.Time) []model.Insight {
	var out []model.Insight
	for _, row := range goals {
		target := fields.PickNumber(row, fields.GoalTarget)
		if target <= 0 {
			continue
		}
		saved := fields.PickNumber(row, fields.GoalSaved)
		ratio := saved / target
		if !fields.Finite(saved, ratio*100) {
			continue
		}

		reached := 0
		for _, m := range milestones {
			if ratio*100 >= float64(m)-percentEpsilon {
				reached = m
				break
			}
		}
		if reached == 0 {
			continue
		}

		title := fields.StringOr(row, fields.GoalTitle, fields.FallbackLabel)
		goalID, ok := fields.PickString(row, fields.GoalID)
		if !ok {
			goalID = title
		}

		sev := model.SeverityLow
		if reached >= 75 {
			sev = model.SeverityMed
		}

		var msg string
		if reached == 100 {
			msg = fmt.Sprintf("Target %s tercapai! Terkumpul %s dari %s.", title, Rupiah(saved), Rupiah(target))
		} else {
			msg = fmt.Sprintf("Tabungan %s sudah %d%% dari target (%s dari %s).", title, reached, Rupiah(saved), Rupiah(target))
		}

		// Goals without timestamps rank as oldest.
		updated, _ := fields.PickDate(row, fields.GoalUpdated)
		out = append(out, candidate(
			id.FormatInsightID(string(model.TypeGoal), goalID, fmt.Sprint(reached)),
			model.TypeGoal, sev, msg, updated,
			map[string]any{
				"goal_id":   goalID,
				"title":     title,
				"milestone": reached,
				"saved":     saved,
				"target":    target,
				"progress":  percent(ratio),
			},
		))
	}
	return out
}
