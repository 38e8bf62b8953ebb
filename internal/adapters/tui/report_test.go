package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtmsync/internal/adapters/tui/views"
	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

func TestTerminalRenderer_Render(t *testing.T) {
	in := ports.RenderInput{
		Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Changes: domain.ChangeSet{
			Updated: []domain.RecordChange{{
				Record: domain.Record{ID: "11", Title: "Login"},
				Segments: []domain.Segment{
					{Kind: domain.SegmentRemoved, Subspans: []domain.Subspan{{Text: "AC-1 old\n"}}},
					{Kind: domain.SegmentAdded, Subspans: []domain.Subspan{{Text: "AC-1 new\n"}}},
				},
			}},
			Unknown: []domain.Record{{ID: "12", Title: "Billing"}},
		},
		Counts:      domain.Counts{Requirements: 3, AcceptanceCriteria: 7},
		Baseline:    domain.Counts{Requirements: 2, AcceptanceCriteria: 7},
		HasBaseline: true,
		Gaps:        []domain.AutomationGap{{RecordID: "11", Title: "Login", Criteria: []string{"AC-1"}}},
		Failed:      []string{"99"},
	}

	out, err := TerminalRenderer{}.Render(context.Background(), in)
	require.NoError(t, err)

	assert.Contains(t, out, "RTM report 2024-03-20")
	assert.Contains(t, out, "(+1)")
	assert.Contains(t, out, "Pages not fetched (1)")
	assert.Contains(t, out, "Updated (1)")
	assert.Contains(t, out, "    - AC-1 old")
	assert.Contains(t, out, "    + AC-1 new")
	assert.Contains(t, out, "Unknown (1)")
	assert.Contains(t, out, "Needs automation (1)")
	assert.Contains(t, out, "11  Login: AC-1")
	assert.NotContains(t, out, "No changes")
}

func TestTerminalRenderer_NoChanges(t *testing.T) {
	out, err := TerminalRenderer{}.Render(context.Background(), ports.RenderInput{
		Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, out, "No changes since the last run.")
	assert.Contains(t, out, "no earlier entry")
}

func TestTerminalRenderer_InitialLaunch(t *testing.T) {
	out, err := TerminalRenderer{}.Render(context.Background(), ports.RenderInput{
		Changes: domain.ChangeSet{InitialLaunch: true},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Initial launch")
	assert.NotContains(t, out, "No changes")
}

func TestApp_SwitchesViews(t *testing.T) {
	app := NewApp(domain.ChangeSet{}, nil)

	app.Update(views.SwitchToHelpMsg{})
	assert.Equal(t, ViewHelp, app.state)
	assert.Contains(t, app.View(), "rtmsync Help")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, ViewBrowser, app.state)
}
