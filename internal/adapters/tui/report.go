package tui

import (
	"context"
	"fmt"
	"strings"

	"rtmsync/internal/adapters/tui/styles"
	"rtmsync/internal/adapters/tui/views"
	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

// TerminalRenderer renders a run report for the terminal
type TerminalRenderer struct{}

var _ ports.ChangeRenderer = TerminalRenderer{}

// Render implements ports.ChangeRenderer
func (TerminalRenderer) Render(_ context.Context, in ports.RenderInput) (string, error) {
	v := views.NewViewBuilder().Title("RTM report " + domain.Day(in.Date))

	if in.Changes.InitialLaunch {
		v.Subtitle("Initial launch: no previous snapshot to compare against")
	}

	v.Section("Statistics")
	v.Raw(views.RenderCounts(in.Counts, in.Baseline, in.HasBaseline))
	if !in.HasBaseline {
		v.Muted("  no earlier entry to compare against")
	}
	v.BlankLine()

	if len(in.Failed) > 0 {
		v.Section(fmt.Sprintf("Pages not fetched (%d)", len(in.Failed)))
		v.Line(styles.ErrorMsg.Render("  " + strings.Join(in.Failed, ", ")))
		v.BlankLine()
	}

	if in.Changes.Empty() && len(in.Changes.Unknown) == 0 && !in.Changes.InitialLaunch {
		v.Muted("No changes since the last run.")
	}

	writeChanges(v, "Added", "added", in.Changes.Added)
	writeChanges(v, "Updated", "updated", in.Changes.Updated)
	writeChanges(v, "Deleted", "deleted", in.Changes.Deleted)

	if len(in.Changes.Unknown) > 0 {
		v.Section(fmt.Sprintf("Unknown (%d)", len(in.Changes.Unknown)))
		v.Muted("  under a page that could not be fetched")
		for _, r := range in.Changes.Unknown {
			v.Line(styles.ItemUnknown.Render(fmt.Sprintf("  %s  %s", r.ID, r.Title)))
		}
		v.BlankLine()
	}

	if len(in.Gaps) > 0 {
		v.Section(fmt.Sprintf("Needs automation (%d)", len(in.Gaps)))
		for _, g := range in.Gaps {
			v.Line(fmt.Sprintf("  %s  %s: %s", g.RecordID, g.Title, strings.Join(g.Criteria, ", ")))
		}
		v.BlankLine()
	}

	return v.StringUnwrapped(), nil
}

func writeChanges(v *views.ViewBuilder, heading, kind string, changes []domain.RecordChange) {
	if len(changes) == 0 {
		return
	}
	v.Section(fmt.Sprintf("%s (%d)", heading, len(changes)))
	for _, c := range changes {
		v.Line(styles.ChangeStyle(kind).Render(fmt.Sprintf("▸ %s  %s", c.Record.ID, c.Record.Title)))
		v.Raw(indent(views.RenderSegments(c.Segments), "    "))
	}
	v.BlankLine()
}

func indent(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}
