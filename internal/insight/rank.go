package insight

import (
	"maps"
	"sort"

	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/model"
)

// DefaultLimit is the number of insights a run returns.
const DefaultLimit = 5

var timestampKey = fields.Keys{model.MetaTimestamp}

// Rank orders candidates by severity (high first), then by recency
// (newer first), and returns at most limit of them with the ranking
// timestamp removed from meta. Candidates without a timestamp rank as 0;
// full ties keep their input order. The input slice is not modified.
func Rank(cands []model.Insight, limit int) []model.Insight {
	if limit <= 0 {
		limit = DefaultLimit
	}

	sorted := make([]model.Insight, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		wi, wj := sorted[i].Severity.Weight(), sorted[j].Severity.Weight()
		if wi != wj {
			return wi > wj
		}
		return fields.PickNumber(sorted[i].Meta, timestampKey) > fields.PickNumber(sorted[j].Meta, timestampKey)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	for i := range sorted {
		sorted[i].Meta = stripTimestamp(sorted[i].Meta)
	}
	return sorted
}

func stripTimestamp(meta map[string]any) map[string]any {
	if _, ok := meta[model.MetaTimestamp]; !ok {
		return meta
	}
	out := maps.Clone(meta)
	delete(out, model.MetaTimestamp)
	return out
}
