package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/frogmud/neverdieguy-core/internal/storage"
)

// Runs browser layout constants
const (
	maxRunsLoaded = 100 // Max runs to load into the table
)

// RunsKeyMap defines the key bindings for the runs browser.
type RunsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Quit}}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel is the Bubble Tea model for browsing stored runs.
type RunsModel struct {
	store    *storage.Store
	records  []storage.RunRecord
	stats    *storage.RunStats
	table    table.Model
	help     help.Model
	keys     RunsKeyMap
	theme    Theme
	width    int
	height   int
	loadErr  error
	quitting bool
}

// NewRunsModel creates a runs browser backed by the given store.
func NewRunsModel(store *storage.Store, width, height int) RunsModel {
	h := help.New()
	h.ShowAll = false

	m := RunsModel{
		store:  store,
		keys:   DefaultRunsKeyMap(),
		help:   h,
		theme:  DefaultTheme(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Seed", Width: 12},
		{Title: "Traveler", Width: 10},
		{Title: "Result", Width: 8},
		{Title: "Domains", Width: 8},
		{Title: "Gold", Width: 7},
		{Title: "Events", Width: 7},
		{Title: "Date", Width: 14},
	}

	height := m.height - 8 // Leave room for header, stats, help
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads recent runs and aggregate stats from the store.
func (m *RunsModel) loadRuns() {
	if m.store == nil {
		m.records = nil
		m.updateTableRows()
		return
	}

	records, err := m.store.RecentRuns(maxRunsLoaded)
	if err != nil {
		m.loadErr = err
		m.records = nil
	} else {
		m.records = records
	}
	if stats, err := m.store.Stats(); err == nil {
		m.stats = stats
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current records.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		result := "lost"
		if r.Won {
			result = "won"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.ID),
			r.Seed,
			r.Traveler,
			result,
			fmt.Sprintf("%d", r.DomainsCleared),
			fmt.Sprintf("%d", r.Gold),
			fmt.Sprintf("%d", r.Events),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the runs browser.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.updateTableRows()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the runs browser.
func (m RunsModel) View() string {
	if m.quitting {
		return ""
	}

	var out string
	out += "\n  " + m.theme.Title.Render("RUN HISTORY") + "\n\n"

	if m.loadErr != nil {
		out += "  " + m.theme.Loss.Render("cannot load runs: "+m.loadErr.Error()) + "\n"
		return out
	}
	if len(m.records) == 0 {
		out += "  " + m.theme.ItemDim.Render("No runs recorded yet.") + "\n"
		return out
	}

	out += m.table.View() + "\n"

	if m.stats != nil && m.stats.Runs > 0 {
		out += "\n  " + m.theme.Subtitle.Render(fmt.Sprintf(
			"%d runs, %d won, avg %.1f domains, best purse %d gold",
			m.stats.Runs, m.stats.Wins, m.stats.AvgDomains, m.stats.BestGold)) + "\n"
	}

	out += "\n" + m.help.View(m.keys) + "\n"
	return out
}

// RunRunsBrowser runs the stored-runs table view.
func RunRunsBrowser(store *storage.Store) error {
	model := NewRunsModel(store, 80, 24)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
