package runlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/feed"
	"github.com/pantau-dev/pantau/internal/insight"
	"github.com/pantau-dev/pantau/internal/model"
)

var testTime = time.Date(2025, 3, 5, 7, 0, 0, 0, calendar.Zone)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     "0b7f3c1e-1111-4222-8333-444455556666",
		State:     "ready",
		Insights:  []string{"budget:burn-rate:2025-03", "subs:due:netflix"},
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ready", entries[0].State)

	data, err := os.ReadFile(filepath.Join(dir, logFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), Header+"\n")
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.State = "partial"
	e2.FailedFeeds = []string{"budgets"}
	e2.Error = "feed budgets: timeout"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ready", entries[0].State)
	assert.Equal(t, "partial", entries[1].State)

	last, ok, err := Last(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, e2.Error, last.Error)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	original.Error = `has "quotes", and commas`
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.RunID, got.RunID)
	assert.Equal(t, original.Insights, got.Insights)
	assert.Nil(t, got.FailedFeeds)
	assert.Equal(t, original.Error, got.Error)
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)

	_, ok, err := Last(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)

	row := MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)

	row = MarshalEntry(testEntry())
	row[colCount] = "9"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "does not match")

	row = MarshalEntry(testEntry())
	row[colInsights] = "budget;subs:due:netflix"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "invalid insight ID")
}

func TestFromResult(t *testing.T) {
	res := insight.Result{
		RunID: "run-1",
		Now:   testTime,
		Insights: []model.Insight{
			{ID: "subs:due:netflix"},
			{ID: "good:good-day:2025-03-05"},
		},
		Failed: []feed.Name{feed.Budgets, feed.ActiveGoals},
		Err:    errors.New("feed budgets: boom"),
	}

	e := FromResult(res)
	assert.Equal(t, "run-1", e.RunID)
	assert.Equal(t, "partial", e.State)
	assert.Equal(t, []string{"subs:due:netflix", "good:good-day:2025-03-05"}, e.Insights)
	assert.Equal(t, []string{"budgets", "active_goals"}, e.FailedFeeds)
	assert.Equal(t, "feed budgets: boom", e.Error)

	calm := FromResult(insight.Result{RunID: "run-2", Now: testTime})
	assert.Equal(t, "ready", calm.State)
	assert.Empty(t, calm.Error)
	assert.Equal(t, "0", MarshalEntry(calm)[colCount])
}
