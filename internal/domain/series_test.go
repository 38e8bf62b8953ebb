package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(date string, requirements int) StatsEntry {
	return StatsEntry{Date: date, Data: Counts{Requirements: requirements}.Map()}
}

func TestSeries_LookupBefore(t *testing.T) {
	today := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	day := func(offset int) string { return Day(today.AddDate(0, 0, offset)) }

	s := Series{entry(day(-10), 10), entry(day(-5), 5)}

	tests := []struct {
		name      string
		target    string
		wantReqs  int
		wantFound bool
	}{
		{"between entries", day(-7), 10, true},
		{"after last entry", day(-3), 5, true},
		{"exact date", day(-5), 5, true},
		{"before first entry", day(-20), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.LookupBefore(tt.target)
			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.wantReqs, got.Requirements)
		})
	}
}

func TestSeries_LookupBeforeMonth(t *testing.T) {
	s := Series{entry("2023-11-14", 1), entry("2024-01-31", 2), entry("2024-02-02", 3)}

	got, ok := s.LookupBeforeMonth("2024-01")
	require.True(t, ok)
	assert.Equal(t, 2, got.Requirements)

	got, ok = s.LookupBeforeMonth("2023-12")
	require.True(t, ok)
	assert.Equal(t, 1, got.Requirements)

	_, ok = s.LookupBeforeMonth("2023-10")
	assert.False(t, ok)
}

func TestSeries_Baseline(t *testing.T) {
	s := Series{entry("2024-03-18", 1), entry("2024-03-19", 2), entry("2024-03-20", 3)}

	got, ok := s.Baseline("2024-03-20")
	require.True(t, ok)
	assert.Equal(t, 2, got.Requirements, "same-day entry must not be its own baseline")

	got, ok = s.Baseline("2024-03-21")
	require.True(t, ok)
	assert.Equal(t, 3, got.Requirements)

	_, ok = s.Baseline("2024-03-18")
	assert.False(t, ok)
}

func TestSeries_AppendOrUpdate(t *testing.T) {
	s := Series{entry("2024-03-19", 1)}

	s, updated := s.AppendOrUpdate("2024-03-20", Counts{Requirements: 2})
	assert.False(t, updated)
	require.Len(t, s, 2)

	s, updated = s.AppendOrUpdate("2024-03-20", Counts{Requirements: 7})
	assert.True(t, updated)
	require.Len(t, s, 2)
	assert.Equal(t, 7, s[1].Data[KeyRequirements])
	assert.Equal(t, "2024-03-19", s[0].Date)
}

func TestSeries_Migrate(t *testing.T) {
	s := Series{
		{Date: "2024-01-01", Data: map[string]int{KeyRequirements: 4, "legacy": 9}},
		{Date: "2024-02-01", Data: nil},
	}

	changed := s.Migrate(CounterKeys)
	require.True(t, changed)

	assert.Equal(t, "2024-01-01", s[0].Date)
	assert.Equal(t, "2024-02-01", s[1].Date)
	for _, e := range s {
		assert.Len(t, e.Data, len(CounterKeys))
		assert.NotContains(t, e.Data, "legacy")
	}
	assert.Equal(t, 4, s[0].Data[KeyRequirements])
	assert.Equal(t, 0, s[1].Data[KeyAutomatedCases])

	assert.False(t, s.Migrate(CounterKeys), "second migration is a no-op")
}

func TestSeries_Windows(t *testing.T) {
	today := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	s := Series{entry("2024-01-15", 1), entry("2024-03-29", 2)}

	days := s.LastNDays(today, 30)
	require.Len(t, days, 30)
	assert.Equal(t, "2024-03-31", days[29].Date)
	assert.Equal(t, "2024-03-02", days[0].Date)
	assert.Equal(t, 1, days[0].Counts.Requirements)
	assert.Equal(t, 2, days[29].Counts.Requirements)

	months := s.LastNMonths(today, 12)
	require.Len(t, months, 12)
	assert.Equal(t, "2024-03", months[11].Date)
	assert.Equal(t, "2024-02", months[10].Date, "month arithmetic must not skip February")
	assert.Equal(t, "2023-04", months[0].Date)
	assert.False(t, months[0].Known)
	assert.Equal(t, 0, months[0].Counts.Requirements)
	assert.Equal(t, 1, months[10].Counts.Requirements)
}

func TestSeed(t *testing.T) {
	s := Seed(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	require.Len(t, s, 1)
	assert.Equal(t, "2021-03-20", s[0].Date)
	assert.Len(t, s[0].Data, len(CounterKeys))
}
