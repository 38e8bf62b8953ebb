package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"rtmsync/internal/adapters/tui/views"
	"rtmsync/internal/domain"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state   ViewState
	browser *views.BrowserModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a browser over the changes of one run. openPage opens a
// page by ID and may be nil.
func NewApp(changes domain.ChangeSet, openPage func(pageID string) error) *App {
	return &App{
		state:   ViewBrowser,
		browser: views.NewBrowserModel(changes, openPage),
		help:    views.NewHelpModel(),
	}
}

// Run starts the browser on the terminal and blocks until it exits
func Run(changes domain.ChangeSet, openPage func(pageID string) error) error {
	p := tea.NewProgram(NewApp(changes, openPage), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	if a.state == ViewHelp {
		return a.help.View()
	}
	return a.browser.View()
}
