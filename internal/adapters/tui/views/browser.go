package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"rtmsync/internal/adapters/tui/styles"
	"rtmsync/internal/domain"
)

// BrowserKeyMap defines key bindings for the change browser
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Copy     key.Binding
	Open     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup/b", "scroll diff up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", " "),
		key.WithHelp("pgdn/space", "scroll diff down"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy page ID"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open page"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Entry is one row of the change list
type Entry struct {
	Kind     string // added, updated, deleted or unknown
	Record   domain.Record
	Segments []domain.Segment
}

// Entries flattens a change set into browser rows, grouped by kind
func Entries(cs domain.ChangeSet) []Entry {
	var entries []Entry
	add := func(kind string, changes []domain.RecordChange) {
		for _, c := range changes {
			entries = append(entries, Entry{Kind: kind, Record: c.Record, Segments: c.Segments})
		}
	}
	add("added", cs.Added)
	add("updated", cs.Updated)
	add("deleted", cs.Deleted)
	for _, r := range cs.Unknown {
		entries = append(entries, Entry{Kind: "unknown", Record: r})
	}
	return entries
}

// listHeight is the number of change rows shown above the diff pane
const listHeight = 8

// BrowserModel lists the changes of a run and shows the diff of the selected one
type BrowserModel struct {
	ViewState

	entries  []Entry
	cursor   int
	offset   int
	diff     viewport.Model
	copyFunc func(string) error
	openFunc func(string) error // nil when pages cannot be opened
}

// NewBrowserModel creates a browser over the given change set. openPage may
// be nil.
func NewBrowserModel(cs domain.ChangeSet, openPage func(pageID string) error) *BrowserModel {
	m := &BrowserModel{
		entries:  Entries(cs),
		diff:     viewport.New(80, 12),
		copyFunc: clipboard.WriteAll,
		openFunc: openPage,
	}
	m.refreshDiff()
	return m
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.refreshDiff()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.refreshDiff()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.PageUp):
			m.diff.HalfViewUp()
			return m, nil

		case key.Matches(msg, BrowserKeys.PageDown):
			m.diff.HalfViewDown()
			return m, nil

		case key.Matches(msg, BrowserKeys.Copy):
			if e, ok := m.Selected(); ok {
				if err := m.copyFunc(e.Record.ID); err != nil {
					m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
				} else {
					m.SetMessage(fmt.Sprintf("Copied %s", e.Record.ID), false)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Open):
			e, ok := m.Selected()
			if !ok || m.openFunc == nil {
				return m, nil
			}
			if e.Kind == "deleted" {
				m.SetMessage("Page no longer exists", true)
				return m, nil
			}
			if err := m.openFunc(e.Record.ID); err != nil {
				m.SetMessage(fmt.Sprintf("Open failed: %v", err), true)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.diff, cmd = m.diff.Update(msg)
	return m, cmd
}

// Selected returns the entry under the cursor
func (m *BrowserModel) Selected() (Entry, bool) {
	if m.cursor >= 0 && m.cursor < len(m.entries) {
		return m.entries[m.cursor], true
	}
	return Entry{}, false
}

func (m *BrowserModel) refreshDiff() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}

	e, ok := m.Selected()
	if !ok {
		m.diff.SetContent("")
		return
	}
	if e.Kind == "unknown" {
		m.diff.SetContent(RenderMuted("Content unknown: a parent page could not be fetched in this run."))
	} else {
		m.diff.SetContent(RenderSegments(e.Segments))
	}
	m.diff.GotoTop()
}

// View renders the browser
func (m *BrowserModel) View() string {
	v := NewViewBuilder().Title("RTM changes")

	if len(m.entries) == 0 {
		v.Muted("No changes since the last run.").BlankLine()
		return v.Help(BrowserKeys.Quit).String()
	}

	end := min(m.offset+listHeight, len(m.entries))
	for i := m.offset; i < end; i++ {
		v.Line(m.renderEntry(m.entries[i], i == m.cursor))
	}
	v.Muted(fmt.Sprintf("%d/%d", m.cursor+1, len(m.entries))).BlankLine()

	v.Raw(m.diff.View()).BlankLine().BlankLine()
	v.Message(m.Message, m.MessageErr)
	return v.Help(
		BrowserKeys.Down,
		BrowserKeys.Up,
		BrowserKeys.PageDown,
		BrowserKeys.Copy,
		BrowserKeys.Open,
		BrowserKeys.Help,
		BrowserKeys.Quit,
	).String()
}

func (m *BrowserModel) renderEntry(e Entry, selected bool) string {
	text := fmt.Sprintf("%-8s %s  %s", strings.ToUpper(e.Kind[:1])+e.Kind[1:], e.Record.ID, e.Record.Title)
	if selected {
		return styles.ItemSelected.Render(text)
	}
	return styles.ChangeStyle(e.Kind).Render(text)
}

// SetSize updates the view dimensions and resizes the diff pane
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.diff.Width = max(width-4, 20)
	m.diff.Height = max(height-listHeight-10, 5)
}

// Messages for view switching
type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}
