package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	// Change list styles
	ItemAdded = lipgloss.NewStyle().
			Foreground(Secondary)

	ItemUpdated = lipgloss.NewStyle().
			Foreground(Warning)

	ItemDeleted = lipgloss.NewStyle().
			Foreground(Error)

	ItemUnknown = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	ItemSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Diff styles
	DiffAdded = lipgloss.NewStyle().
			Foreground(Secondary)

	DiffRemoved = lipgloss.NewStyle().
			Foreground(Error)

	DiffUnchanged = lipgloss.NewStyle()

	Struck = lipgloss.NewStyle().
		Strikethrough(true)

	// Counter deltas
	DeltaUp   = lipgloss.NewStyle().Foreground(Secondary)
	DeltaDown = lipgloss.NewStyle().Foreground(Error)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Padding(0, 1).
			MarginRight(1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// ChangeStyle returns the list style for a change kind ("added", "updated",
// "deleted" or "unknown")
func ChangeStyle(kind string) lipgloss.Style {
	switch kind {
	case "added":
		return ItemAdded
	case "updated":
		return ItemUpdated
	case "deleted":
		return ItemDeleted
	default:
		return ItemUnknown
	}
}
