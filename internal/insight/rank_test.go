package insight

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantau-dev/pantau/internal/model"
)

func cand(id string, sev model.Severity, ts any) model.Insight {
	meta := map[string]any{"k": id}
	if ts != nil {
		meta[model.MetaTimestamp] = ts
	}
	return model.Insight{ID: id, Severity: sev, Meta: meta}
}

func ids(in []model.Insight) []string {
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = c.ID
	}
	return out
}

func TestRank_SeverityBeatsRecency(t *testing.T) {
	orders := [][]model.Insight{
		{cand("low", model.SeverityLow, int64(100)), cand("high", model.SeverityHigh, int64(1)), cand("med", model.SeverityMed, int64(50))},
		{cand("med", model.SeverityMed, int64(50)), cand("low", model.SeverityLow, int64(100)), cand("high", model.SeverityHigh, int64(1))},
		{cand("high", model.SeverityHigh, int64(1)), cand("med", model.SeverityMed, int64(50)), cand("low", model.SeverityLow, int64(100))},
	}
	for _, in := range orders {
		assert.Equal(t, []string{"high", "med", "low"}, ids(Rank(in, DefaultLimit)))
	}
}

func TestRank_RecencyBreaksTies(t *testing.T) {
	in := []model.Insight{
		cand("old", model.SeverityMed, int64(10)),
		cand("none", model.SeverityMed, nil),
		cand("new", model.SeverityMed, int64(20)),
	}
	assert.Equal(t, []string{"new", "old", "none"}, ids(Rank(in, DefaultLimit)))
}

func TestRank_FullTiesKeepInputOrder(t *testing.T) {
	in := []model.Insight{
		cand("a", model.SeverityLow, nil),
		cand("b", model.SeverityLow, nil),
		cand("c", model.SeverityLow, int64(0)),
		cand("d", model.SeverityLow, nil),
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Rank(in, DefaultLimit)))
}

func TestRank_CapsAtLimit(t *testing.T) {
	var in []model.Insight
	for i := 0; i < 20; i++ {
		in = append(in, cand(fmt.Sprintf("c%02d", i), model.SeverityMed, int64(i)))
	}
	got := Rank(in, DefaultLimit)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"c19", "c18", "c17", "c16", "c15"}, ids(got))

	assert.Len(t, Rank(in, 0), DefaultLimit)
	assert.Len(t, Rank(in, 3), 3)
}

func TestRank_StripsTimestampWithoutMutatingInput(t *testing.T) {
	in := []model.Insight{cand("a", model.SeverityHigh, int64(5))}
	got := Rank(in, DefaultLimit)

	require.Len(t, got, 1)
	assert.NotContains(t, got[0].Meta, model.MetaTimestamp)
	assert.Equal(t, "a", got[0].Meta["k"])
	assert.Contains(t, in[0].Meta, model.MetaTimestamp)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, DefaultLimit))
}

func TestRank_UnknownSeverityLast(t *testing.T) {
	in := []model.Insight{
		cand("weird", model.Severity("urgent"), int64(999)),
		cand("low", model.SeverityLow, int64(1)),
	}
	assert.Equal(t, []string{"low", "weird"}, ids(Rank(in, DefaultLimit)))
}
