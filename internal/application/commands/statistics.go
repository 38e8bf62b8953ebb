package commands

import (
	"context"
	"time"

	"rtmsync/internal/domain"
	"rtmsync/internal/logger"
	"rtmsync/internal/ports"
)

// StatisticsResult contains the counts of this run and the stored series
type StatisticsResult struct {
	Counts          domain.Counts
	Baseline        domain.Counts
	HasBaseline     bool
	Series          domain.Series
	Updated         bool // Today's entry already existed and was overwritten
	Automated       map[string]bool
	NeedsAutomation int
	Gaps            []domain.AutomationGap
	Saved           bool
}

// StatisticsCommand rolls the records of a run up into today's statistics entry
type StatisticsCommand struct {
	store      ports.StatisticsStore
	automation ports.AutomationSource // nil disables cross-referencing
	log        *logger.Logger

	Records              []domain.Record
	Today                time.Time
	MaxRequestsPerMinute int
	Configure            func(*CheckAutomationCommand) // Test hook, may be nil
}

// NewStatisticsCommand creates a new StatisticsCommand
func NewStatisticsCommand(
	store ports.StatisticsStore,
	automation ports.AutomationSource,
	records []domain.Record,
	today time.Time,
	log *logger.Logger,
) *StatisticsCommand {
	return &StatisticsCommand{
		store:      store,
		automation: automation,
		log:        log,
		Records:    records,
		Today:      today,
	}
}

// LoadSeries reads the stored series and migrates it to the current schema.
// A read failure is logged and treated as an empty history.
func LoadSeries(ctx context.Context, store ports.StatisticsStore, log *logger.Logger) (domain.Series, bool) {
	series, err := store.Load(ctx)
	if err != nil {
		log.Warn("statistics unreadable, starting empty", "error", err)
		return nil, false
	}
	migrated := series.Migrate(domain.CounterKeys)
	if migrated {
		log.Info("statistics migrated to current schema", "entries", len(series))
	}
	return series, migrated
}

// Execute computes today's counts and stores them. A write failure is logged
// and the counts are still returned.
func (c *StatisticsCommand) Execute(ctx context.Context) (*StatisticsResult, error) {
	series, _ := LoadSeries(ctx, c.store, c.log)
	if len(series) == 0 {
		series = domain.Seed(c.Today)
	}

	today := domain.Day(c.Today)
	res := &StatisticsResult{Counts: domain.Tally(c.Records)}
	res.Baseline, res.HasBaseline = series.Baseline(today)

	if c.automation != nil {
		if err := c.crossReference(ctx, res); err != nil {
			return nil, err
		}
	} else {
		res.Counts.AutomatedCases = res.Baseline.AutomatedCases
		res.Counts.AcceptanceCriteriaAutomated = min(res.Baseline.AcceptanceCriteriaAutomated, res.Counts.AcceptanceCriteriaAutomatable)
	}

	res.Series, res.Updated = series.AppendOrUpdate(today, res.Counts)

	if err := c.store.Save(ctx, res.Series); err != nil {
		c.log.Error("statistics not saved", "error", err)
	} else {
		res.Saved = true
	}

	c.log.Info("statistics updated",
		"date", today,
		"requirements", res.Counts.Requirements,
		"criteria", res.Counts.AcceptanceCriteria,
		"test_cases", res.Counts.TestCases,
		"overwrote", res.Updated)
	return res, nil
}

func (c *StatisticsCommand) crossReference(ctx context.Context, res *StatisticsResult) error {
	check := NewCheckAutomationCommand(c.automation, domain.AutomatableCaseNumbers(c.Records), c.MaxRequestsPerMinute, c.log)
	if c.Configure != nil {
		c.Configure(check)
	}

	automated, err := check.Execute(ctx)
	if err != nil {
		return err
	}

	res.Automated = automated
	res.NeedsAutomation, res.Gaps = NeedsAutomation(c.Records, automated)
	res.Counts.AutomatedCases = len(automated)
	res.Counts.AcceptanceCriteriaAutomated = res.Counts.AcceptanceCriteriaAutomatable - res.NeedsAutomation
	return nil
}
