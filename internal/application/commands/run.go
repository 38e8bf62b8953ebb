package commands

import (
	"context"
	"time"

	"rtmsync/internal/application/extract"
	"rtmsync/internal/domain"
	"rtmsync/internal/logger"
	"rtmsync/internal/ports"
)

// RunDeps are the collaborators of a full pass
type RunDeps struct {
	Source      ports.DocumentSource
	Transformer ports.ContentTransformer
	Extractor   extract.Extractor
	Snapshots   ports.SnapshotStore
	Statistics  ports.StatisticsStore
	Automation  ports.AutomationSource // nil disables cross-referencing
	Log         *logger.Logger
}

// RunResult contains everything a pass produced
type RunResult struct {
	Sync          *SyncResult
	InitialLaunch bool
	OldRecords    []domain.Record
	NewRecords    []domain.Record
	Changes       domain.ChangeSet
	Counts        domain.Counts
	Stats         *StatisticsResult // nil when statistics are disabled
}

// RenderInput adapts the result for a ports.ChangeRenderer
func (r *RunResult) RenderInput(date time.Time) ports.RenderInput {
	in := ports.RenderInput{
		Date:    date,
		Changes: r.Changes,
		Counts:  r.Counts,
	}
	if r.Sync != nil {
		in.Failed = domain.FailedIDs(r.Sync.Root)
	}
	if r.Stats != nil {
		in.Baseline = r.Stats.Baseline
		in.HasBaseline = r.Stats.HasBaseline
		in.Gaps = r.Stats.Gaps
	}
	return in
}

// RunCommand performs one synchronization pass: sync, persist, extract,
// compare and roll up statistics
type RunCommand struct {
	deps RunDeps

	RootID               string
	Today                time.Time
	EnableStatistics     bool
	MaxRequestsPerMinute int
	Sleep                ports.SleepFunc
	ConfigureAutomation  func(*CheckAutomationCommand)
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(deps RunDeps, rootID string, today time.Time) *RunCommand {
	return &RunCommand{
		deps:             deps,
		RootID:           rootID,
		Today:            today,
		EnableStatistics: true,
		Sleep:            ports.Sleep,
	}
}

// Execute runs the pass. Only an unreachable root page is fatal; persistence
// problems are logged and the pass carries on.
func (c *RunCommand) Execute(ctx context.Context) (*RunResult, error) {
	log := c.deps.Log

	previous, err := c.deps.Snapshots.Load(ctx)
	if err != nil {
		log.Warn("snapshot unreadable, treating as first run", "error", err)
		previous = nil
	}
	res := &RunResult{InitialLaunch: previous == nil}

	sync := NewSyncTreeCommand(c.deps.Source, c.deps.Transformer, previous, c.RootID, log)
	sync.Sleep = c.Sleep
	res.Sync, err = sync.Execute(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.deps.Snapshots.Save(ctx, res.Sync.Root); err != nil {
		log.Error("snapshot not saved", "error", err)
	}

	res.OldRecords = extract.BaselineRecords(previous, c.deps.Extractor)
	res.NewRecords = extract.Records(res.Sync.Root, c.deps.Extractor)
	res.Changes = BuildChangeSet(res.OldRecords, res.NewRecords, HiddenIDs(previous, res.Sync.Root), res.InitialLaunch)

	if !c.EnableStatistics {
		res.Counts = domain.Tally(res.NewRecords)
		return res, nil
	}

	stats := NewStatisticsCommand(c.deps.Statistics, c.deps.Automation, res.NewRecords, c.Today, log)
	stats.MaxRequestsPerMinute = c.MaxRequestsPerMinute
	stats.Configure = c.ConfigureAutomation
	res.Stats, err = stats.Execute(ctx)
	if err != nil {
		return nil, err
	}
	res.Counts = res.Stats.Counts

	log.Info("run complete",
		"records", len(res.NewRecords),
		"added", len(res.Changes.Added),
		"updated", len(res.Changes.Updated),
		"deleted", len(res.Changes.Deleted),
		"unknown", len(res.Changes.Unknown))
	return res, nil
}
