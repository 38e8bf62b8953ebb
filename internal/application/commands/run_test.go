package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtmsync/internal/application"
	"rtmsync/internal/application/extract"
	"rtmsync/internal/domain"
	"rtmsync/internal/logger"
	"rtmsync/internal/ports"
)

type memorySnapshots struct {
	root    *domain.Node
	loadErr error
	saves   int
}

func (m *memorySnapshots) Load(context.Context) (*domain.Node, error) {
	return m.root, m.loadErr
}

func (m *memorySnapshots) Save(_ context.Context, root *domain.Node) error {
	m.saves++
	m.root = root
	return nil
}

func runExtractor(t *testing.T) extract.Extractor {
	t.Helper()
	ex, err := extract.NewRegexExtractor(extract.Rules{
		Criterion: extract.ParsePattern(`(AC-\d+):\s*([^\n]*)`),
		TestCases: extract.ParsePattern(`((?:CASE-\d+,?\s*)+)`),
	})
	require.NoError(t, err)
	return ex
}

func TestRunCommand_TwoPasses(t *testing.T) {
	pages := map[string]fakePage{
		"1": {title: "Catalog", body: "index", version: 1, children: []string{"2", "3"}},
		"2": {title: "Login", body: "AC-1: works CASE-1\n", version: 1},
		"3": {title: "Logout", body: "AC-1: bye CASE-2\n", version: 1},
	}
	src := newFakeSource(pages)
	snapshots := &memorySnapshots{}
	stats := &memoryStats{}
	deps := RunDeps{
		Source:      src,
		Transformer: identityTransformer{},
		Extractor:   runExtractor(t),
		Snapshots:   snapshots,
		Statistics:  stats,
		Log:         logger.Nop(),
	}

	day1 := time.Date(2024, 3, 19, 8, 0, 0, 0, time.UTC)
	cmd := NewRunCommand(deps, "1", day1)
	cmd.Sleep = noSleep

	first, err := cmd.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, first.InitialLaunch)
	assert.True(t, first.Changes.Empty())
	assert.Len(t, first.NewRecords, 2)
	assert.Equal(t, 2, first.Counts.Requirements)
	assert.Equal(t, 1, snapshots.saves)

	pages["2"] = fakePage{title: "Login", body: "AC-1: works CASE-1\nAC-2: locks CASE-3\n", version: 2}
	delete(pages, "3")
	pages["1"] = fakePage{title: "Catalog", body: "index", version: 1, children: []string{"2", "4"}}
	pages["4"] = fakePage{title: "Profile", body: "AC-1: edit CASE-4\n", version: 1}

	cmd.Today = day1.AddDate(0, 0, 1)
	second, err := cmd.Execute(context.Background())
	require.NoError(t, err)

	assert.False(t, second.InitialLaunch)
	require.Len(t, second.Changes.Updated, 1)
	assert.Equal(t, "2", second.Changes.Updated[0].Record.ID)
	require.Len(t, second.Changes.Added, 1)
	assert.Equal(t, "4", second.Changes.Added[0].Record.ID)
	require.Len(t, second.Changes.Deleted, 1)
	assert.Equal(t, "3", second.Changes.Deleted[0].Record.ID)

	require.NotNil(t, second.Stats)
	assert.Equal(t, 2, second.Stats.Baseline.Requirements)
	assert.Equal(t, 3, second.Counts.AcceptanceCriteria)
	assert.Len(t, stats.series, 3, "seed plus one entry per day")
	assert.Equal(t, 1, src.fullCalls["1"], "unchanged root fetched only on the first pass")

	in := second.RenderInput(cmd.Today)
	assert.Empty(t, in.Failed)
	assert.True(t, in.HasBaseline)
}

func TestRunCommand_FailedBranchIsUnknown(t *testing.T) {
	previous := &domain.Node{
		ID: "1", Title: "Catalog", Content: "index", Version: 1,
		ChildIDs: []string{"2"},
		Children: []*domain.Node{
			{ID: "2", Title: "Login", Content: "AC-1: works CASE-1\n", PlainText: "AC-1: works CASE-1\n", Version: 1},
		},
	}
	src := newFakeSource(map[string]fakePage{
		"1": {title: "Catalog", body: "index", version: 1, children: []string{"2"}},
	})
	transient := &ports.TransientError{Op: "summary", StatusCode: 503}
	src.summaryErrs["2"] = []error{transient, transient, transient}

	deps := RunDeps{
		Source:      src,
		Transformer: identityTransformer{},
		Extractor:   runExtractor(t),
		Snapshots:   &memorySnapshots{root: previous},
		Statistics:  &memoryStats{},
		Log:         logger.Nop(),
	}
	cmd := NewRunCommand(deps, "1", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	cmd.Sleep = noSleep
	cmd.EnableStatistics = false

	res, err := cmd.Execute(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Changes.Deleted)
	require.Len(t, res.Changes.Unknown, 1)
	assert.Equal(t, "2", res.Changes.Unknown[0].ID)
	assert.Nil(t, res.Stats)
	assert.Equal(t, []string{"2"}, res.RenderInput(time.Now()).Failed)
}

func TestRunCommand_RecoveredPageIsNotAdded(t *testing.T) {
	pages := map[string]fakePage{
		"1": {title: "Catalog", body: "index", version: 1, children: []string{"2"}},
		"2": {title: "Login", body: "AC-1: works CASE-1\n", version: 1},
	}
	src := newFakeSource(pages)
	snapshots := &memorySnapshots{}
	deps := RunDeps{
		Source:      src,
		Transformer: identityTransformer{},
		Extractor:   runExtractor(t),
		Snapshots:   snapshots,
		Statistics:  &memoryStats{},
		Log:         logger.Nop(),
	}
	cmd := NewRunCommand(deps, "1", time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	cmd.Sleep = noSleep
	cmd.EnableStatistics = false

	_, err := cmd.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, src.fullCalls["2"])

	transient := &ports.TransientError{Op: "summary", StatusCode: 503}
	src.summaryErrs["2"] = []error{transient, transient, transient}
	failing, err := cmd.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, failing.Changes.Unknown, 1)
	assert.Equal(t, "2", failing.Changes.Unknown[0].ID)
	assert.True(t, snapshots.root.Children[0].Carried())

	recovered, err := cmd.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recovered.Changes.Added)
	assert.Empty(t, recovered.Changes.Updated)
	assert.Empty(t, recovered.Changes.Unknown)
	assert.Equal(t, 1, src.fullCalls["2"], "same version is reused, not fetched again")
	assert.Empty(t, recovered.RenderInput(time.Now()).Failed)
}

func TestRunCommand_RootUnavailable(t *testing.T) {
	src := newFakeSource(map[string]fakePage{})
	snapshots := &memorySnapshots{loadErr: errors.New("corrupt")}
	deps := RunDeps{
		Source:      src,
		Transformer: identityTransformer{},
		Extractor:   runExtractor(t),
		Snapshots:   snapshots,
		Statistics:  &memoryStats{},
		Log:         logger.Nop(),
	}
	cmd := NewRunCommand(deps, "1", time.Now())
	cmd.Sleep = noSleep

	_, err := cmd.Execute(context.Background())
	assert.ErrorIs(t, err, application.ErrRootUnavailable)
	assert.Zero(t, snapshots.saves)
}
