package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"rtmsync/internal/adapters/tui/styles"
	"rtmsync/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderMuted renders muted/secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// RenderSegments renders diff segments line by line. Added lines get a "+"
// gutter, removed lines "-", and struck subspans render with strikethrough.
func RenderSegments(segments []domain.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		gutter, style := "  ", styles.DiffUnchanged
		switch seg.Kind {
		case domain.SegmentAdded:
			gutter, style = "+ ", styles.DiffAdded
		case domain.SegmentRemoved:
			gutter, style = "- ", styles.DiffRemoved
		}

		for _, line := range splitSubspanLines(seg.Subspans) {
			b.WriteString(style.Render(gutter))
			for _, sp := range line {
				b.WriteString(renderSubspan(sp, style))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderSubspan(sp domain.Subspan, base lipgloss.Style) string {
	if sp.Text == "" {
		return ""
	}
	if sp.Struck {
		return base.Strikethrough(true).Render(sp.Text)
	}
	return base.Render(sp.Text)
}

// splitSubspanLines regroups subspans into display lines. A struck run that
// crosses a line break is split into one piece per line.
func splitSubspanLines(spans []domain.Subspan) [][]domain.Subspan {
	lines := [][]domain.Subspan{nil}
	for _, sp := range spans {
		parts := strings.Split(sp.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], domain.Subspan{Text: part, Struck: sp.Struck})
			}
		}
	}
	if len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// RenderCounts renders one line per counter, with the change against the
// baseline when there is one
func RenderCounts(c, baseline domain.Counts, hasBaseline bool) string {
	current, previous := c.Map(), baseline.Map()

	width := 0
	for _, k := range domain.CounterKeys {
		width = max(width, len(k))
	}

	var b strings.Builder
	for _, k := range domain.CounterKeys {
		fmt.Fprintf(&b, "  %-*s %6d", width, k, current[k])
		if hasBaseline {
			b.WriteString("  ")
			b.WriteString(RenderDelta(current[k] - previous[k]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDelta formats a signed difference
func RenderDelta(d int) string {
	switch {
	case d > 0:
		return styles.DeltaUp.Render(fmt.Sprintf("(+%d)", d))
	case d < 0:
		return styles.DeltaDown.Render(fmt.Sprintf("(%d)", d))
	default:
		return RenderMuted("(=)")
	}
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Subtitle adds a subtitle section
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	v.b.WriteString(styles.Subtitle.Render(subtitle))
	v.b.WriteString("\n\n")
	return v
}

// Section adds a section heading
func (v *ViewBuilder) Section(heading string) *ViewBuilder {
	v.b.WriteString(styles.Section.Render(heading))
	v.b.WriteString("\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(RenderMuted(text))
	v.b.WriteString("\n")
	return v
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// Raw adds raw text without any formatting
func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}

// StringUnwrapped returns the built view string without app style wrapping
func (v *ViewBuilder) StringUnwrapped() string {
	return v.b.String()
}
