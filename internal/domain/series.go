package domain

import "time"

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	// SeedMonths is how far back the zero entry of a new series is dated
	SeedMonths = 36
)

// StatsEntry is one dated row of the statistics series
type StatsEntry struct {
	Date string         `json:"date"`
	Data map[string]int `json:"data"`
}

// Counts returns the entry's data as Counts
func (e StatsEntry) Counts() Counts {
	return CountsFromMap(e.Data)
}

// Series is the ordered statistics history, at most one entry per day
type Series []StatsEntry

// DatedCounts is one point of a lookback window
type DatedCounts struct {
	Date   string
	Counts Counts
	Known  bool // false when no entry existed at or before Date
}

// Day formats t as a calendar day
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// Seed returns a new series holding a single zero entry SeedMonths before today
func Seed(today time.Time) Series {
	start := today.AddDate(0, -SeedMonths, 0)
	return Series{{Date: Day(start), Data: Counts{}.Map()}}
}

// LookupBefore returns the counts of the latest entry dated on or before date
func (s Series) LookupBefore(date string) (Counts, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Date <= date {
			return s[i].Counts(), true
		}
	}
	return Counts{}, false
}

// LookupBeforeMonth is LookupBefore at month granularity (month is "YYYY-MM")
func (s Series) LookupBeforeMonth(month string) (Counts, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if monthOf(s[i].Date) <= month {
			return s[i].Counts(), true
		}
	}
	return Counts{}, false
}

// Baseline returns the counts of the latest entry dated strictly before today.
// Repeated runs on the same day therefore compare against the same baseline.
func (s Series) Baseline(today string) (Counts, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Date < today {
			return s[i].Counts(), true
		}
	}
	return Counts{}, false
}

// AppendOrUpdate overwrites the entry for day or appends a new one.
// It reports whether an existing entry was updated.
func (s Series) AppendOrUpdate(day string, c Counts) (Series, bool) {
	for i := range s {
		if s[i].Date == day {
			s[i].Data = c.Map()
			return s, true
		}
	}
	return append(s, StatsEntry{Date: day, Data: c.Map()}), false
}

// Migrate rewrites every entry to the given key set: missing keys default to
// zero and unknown keys are dropped. Dates and order are untouched.
// It reports whether any entry changed.
func (s Series) Migrate(keys []string) bool {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	changed := false
	for i := range s {
		if s[i].Data == nil {
			s[i].Data = make(map[string]int, len(keys))
		}
		for _, k := range keys {
			if _, ok := s[i].Data[k]; !ok {
				s[i].Data[k] = 0
				changed = true
			}
		}
		for k := range s[i].Data {
			if !want[k] {
				delete(s[i].Data, k)
				changed = true
			}
		}
	}
	return changed
}

// LastNDays returns one point per day for the n days ending today, oldest first
func (s Series) LastNDays(today time.Time, n int) []DatedCounts {
	out := make([]DatedCounts, n)
	for i := 0; i < n; i++ {
		date := Day(today.AddDate(0, 0, -i))
		counts, ok := s.LookupBefore(date)
		out[n-1-i] = DatedCounts{Date: date, Counts: counts, Known: ok}
	}
	return out
}

// LastNMonths returns one point per month for the n months ending with the
// current one, oldest first
func (s Series) LastNMonths(today time.Time, n int) []DatedCounts {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	out := make([]DatedCounts, n)
	for i := 0; i < n; i++ {
		month := first.AddDate(0, -i, 0).Format(MonthLayout)
		counts, ok := s.LookupBeforeMonth(month)
		out[n-1-i] = DatedCounts{Date: month, Counts: counts, Known: ok}
	}
	return out
}

// Latest returns the most recent entry
func (s Series) Latest() (StatsEntry, bool) {
	if len(s) == 0 {
		return StatsEntry{}, false
	}
	return s[len(s)-1], true
}

func monthOf(date string) string {
	if len(date) < len(MonthLayout) {
		return date
	}
	return date[:len(MonthLayout)]
}
