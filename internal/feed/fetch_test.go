package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/fields"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestNewWindow(t *testing.T) {
	now := mustDay(t, "2025-03-05").Add(15 * time.Hour) // Wednesday afternoon
	w := NewWindow(now)

	assert.Equal(t, now, w.Now)
	assert.Equal(t, "2025-03-05", calendar.DayKey(w.Today))
	assert.Equal(t, "2025-03-03", calendar.DayKey(w.WeekStart))
	assert.Equal(t, "2025-02-24", calendar.DayKey(w.PrevWeekStart))
	assert.Equal(t, "2025-03-10", calendar.DayKey(w.NextWeekStart))
	assert.Equal(t, "2025-02-20", calendar.DayKey(w.LookbackStart))
	assert.Equal(t, "2025-03-08", calendar.DayKey(w.LookaheadEnd))
	assert.Equal(t, "2025-03-01", calendar.DayKey(w.MonthStart))
	assert.Equal(t, "2025-04-01", calendar.DayKey(w.NextMonthStart))
	assert.Equal(t, "2025-03", w.MonthKey())
}

func TestFetchAll_IsolatesFailure(t *testing.T) {
	errB := errors.New("connection reset")
	src := SourceFunc(func(_ context.Context, name Name, _ Window) ([]fields.Row, error) {
		switch name {
		case "a":
			return []fields.Row{{"v": 1}}, nil
		case "b":
			return nil, errB
		default:
			return []fields.Row{{"v": 3}, {"v": 4}}, nil
		}
	})

	res := FetchAll(context.Background(), src, NewWindow(time.Now()), "a", "b", "c")

	assert.Len(t, res.Get("a"), 1)
	assert.Len(t, res.Get("c"), 2)
	assert.NotNil(t, res.Rows["b"])
	assert.Empty(t, res.Rows["b"])
	assert.Equal(t, []Name{"b"}, res.Failed)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, errB)
	assert.Contains(t, res.Err.Error(), "feed b")
	assert.ErrorIs(t, res.Errs["b"], errB)
}

func TestFetchAll_FirstErrorByDeclarationOrder(t *testing.T) {
	// "late" fails first in wall-clock time but is declared second.
	release := make(chan struct{})
	src := SourceFunc(func(_ context.Context, name Name, _ Window) ([]fields.Row, error) {
		if name == "early" {
			<-release
			return nil, errors.New("early failed")
		}
		defer close(release)
		return nil, errors.New("late failed")
	})

	res := FetchAll(context.Background(), src, NewWindow(time.Now()), "early", "late")

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "early failed")
	assert.Equal(t, []Name{"early", "late"}, res.Failed)
}

func TestFetchAll_RunsConcurrently(t *testing.T) {
	const n = 5
	var started sync.WaitGroup
	started.Add(n)
	src := SourceFunc(func(_ context.Context, _ Name, _ Window) ([]fields.Row, error) {
		started.Done()
		started.Wait() // deadlocks unless every fetch is in flight at once
		return nil, nil
	})

	done := make(chan Result)
	go func() {
		done <- FetchAll(context.Background(), src, NewWindow(time.Now()), "a", "b", "c", "d", "e")
	}()

	select {
	case res := <-done:
		assert.NoError(t, res.Err)
		for _, name := range []Name{"a", "b", "c", "d", "e"} {
			assert.NotNil(t, res.Rows[name])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fetches did not run concurrently")
	}
}

func TestFetchAll_SharesOneWindow(t *testing.T) {
	var seen sync.Map
	src := SourceFunc(func(_ context.Context, name Name, w Window) ([]fields.Row, error) {
		seen.Store(name, w)
		return nil, nil
	})
	w := NewWindow(time.Now())

	FetchAll(context.Background(), src, w, All...)

	count := 0
	seen.Range(func(_, v any) bool {
		assert.Equal(t, w, v)
		count++
		return true
	})
	assert.Equal(t, len(All), count)
}

func TestFetchAll_PanicBecomesError(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(_ context.Context, name Name, _ Window) ([]fields.Row, error) {
		calls.Add(1)
		if name == "bad" {
			panic("nil row scanner")
		}
		return []fields.Row{{}}, nil
	})

	res := FetchAll(context.Background(), src, NewWindow(time.Now()), "good", "bad")

	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, res.Get("good"), 1)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "panic")
}

func TestFetchAll_AllFail(t *testing.T) {
	src := SourceFunc(func(_ context.Context, name Name, _ Window) ([]fields.Row, error) {
		return nil, errors.New(string(name) + " down")
	})

	res := FetchAll(context.Background(), src, NewWindow(time.Now()), All...)

	assert.Len(t, res.Failed, len(All))
	assert.Contains(t, res.Err.Error(), "merchant_weekly down")
	for _, name := range All {
		assert.Empty(t, res.Get(name))
	}
}

func TestResultGet_Missing(t *testing.T) {
	var r Result
	assert.NotNil(t, r.Get(Budgets))
	assert.Empty(t, r.Get(Budgets))
}
