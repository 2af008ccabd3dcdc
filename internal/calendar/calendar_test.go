package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay_UsesFixedOffset(t *testing.T) {
	// 2025-01-31 20:00 UTC is already 2025-02-01 03:00 in UTC+7.
	ts := time.Date(2025, 1, 31, 20, 0, 0, 0, time.UTC)
	got := StartOfDay(ts)

	assert.Equal(t, "2025-02-01", DayKey(got))
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC), got.UTC())
}

func TestStartOfDay_IgnoresHostLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	ts := time.Date(2025, 3, 9, 12, 0, 0, 0, ny) // 16:00 UTC, 23:00 WIB
	assert.Equal(t, "2025-03-09", DayKey(StartOfDay(ts)))

	ts = time.Date(2025, 3, 9, 13, 30, 0, 0, ny) // 17:30 UTC, 00:30 WIB next day
	assert.Equal(t, "2025-03-10", DayKey(StartOfDay(ts)))
}

func TestStartOfWeek_Monday(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2025-01-13", "2025-01-13"}, // Monday
		{"2025-01-15", "2025-01-13"}, // Wednesday
		{"2025-01-19", "2025-01-13"}, // Sunday
		{"2025-01-20", "2025-01-20"}, // next Monday
	}
	for _, tt := range tests {
		d, err := ParseDay(tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.want, DayKey(StartOfWeek(d)), tt.day)
	}
}

func TestStartOfWeek_CrossesMonth(t *testing.T) {
	d, err := ParseDay("2025-10-02") // Thursday
	require.NoError(t, err)

	ws := StartOfWeek(d)
	assert.Equal(t, "2025-09-29", DayKey(ws))
	assert.Equal(t, "2025-09", MonthKey(ws))
}

func TestStartOfWeek_Idempotent(t *testing.T) {
	start := time.Date(2024, 12, 25, 23, 59, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		ts := start.Add(time.Duration(i) * 7 * time.Hour)
		once := StartOfWeek(ts)
		assert.Equal(t, once, StartOfWeek(once))
		assert.Equal(t, time.Monday, once.Weekday())

		m := StartOfMonth(ts)
		assert.Equal(t, m, StartOfMonth(m))
	}
}

func TestStartOfMonthAndNext(t *testing.T) {
	d, err := ParseDay("2024-12-17")
	require.NoError(t, err)

	assert.Equal(t, "2024-12-01", DayKey(StartOfMonth(d)))
	assert.Equal(t, "2025-01-01", DayKey(StartOfNextMonth(d)))
}

func TestDaysInMonth(t *testing.T) {
	for day, want := range map[string]int{
		"2024-02-10": 29,
		"2025-02-10": 28,
		"2025-04-30": 30,
		"2025-12-31": 31,
	} {
		d, err := ParseDay(day)
		require.NoError(t, err)
		assert.Equal(t, want, DaysInMonth(d), day)
	}
}

func TestAddDaysAndDaysBetween(t *testing.T) {
	d, err := ParseDay("2025-02-27")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-02", DayKey(AddDays(d, 3)))
	assert.Equal(t, "2025-02-14", DayKey(AddDays(d, -13)))
	assert.Equal(t, 3, DaysBetween(d, AddDays(d, 3)))
	assert.Equal(t, -13, DaysBetween(d, AddDays(d, -13)))
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-07")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", DayKey(m))

	_, err = ParseMonth("July")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing month")
}
