package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/egg-balance/internal/storage"
)

const maxHistory = 100

// historyTabs are the mode filters; "" shows every mode.
var historyTabs = []string{"", "normal", "hard"}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextTab, k.PrevTab, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model listing recent sessions.
type HistoryModel struct {
	store    *storage.Store
	tab      int
	sessions []storage.SessionRecord
	stats    *storage.ModeStats
	err      error
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	quitting bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Mode", Width: 7},
		{Title: "Outcome", Width: 8},
		{Title: "Survived", Width: 9},
		{Title: "Left", Width: 7},
		{Title: "Player", Width: 14},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)),
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

// load reads the sessions of the current tab.
func (m *HistoryModel) load() {
	m.sessions, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		mode := historyTabs[m.tab]
		m.sessions, m.err = m.store.RecentSessions(mode, maxHistory)
		if m.err == nil && mode != "" {
			m.stats, m.err = m.store.ModeStats(mode)
		}
	}
	m.updateTableRows()
}

func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		rows[i] = table.Row{
			fmt.Sprintf("%d", s.ID),
			s.Mode,
			s.Outcome,
			fmt.Sprintf("%.1fs", s.Elapsed),
			fmt.Sprintf("%.1fs", s.TimeRemaining),
			s.Player,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % len(historyTabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + len(historyTabs) - 1) % len(historyTabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("SESSION HISTORY", m.width)))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.renderStats(), m.width))
	b.WriteString("\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boxStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m HistoryModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(historyTabs))
	for i, t := range historyTabs {
		name := t
		if name == "" {
			name = "all"
		}
		if i == m.tab {
			tabs[i] = activeStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m HistoryModel) renderStats() string {
	if m.stats == nil || m.stats.Sessions == 0 {
		return ""
	}
	return fmt.Sprintf("%d sessions  %d won (%.0f%%)  best %.1fs  avg %.1fs",
		m.stats.Sessions, m.stats.Wins, m.stats.WinRate()*100, m.stats.BestTime, m.stats.AvgTime)
}

func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(1, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("History is unavailable.")
	case m.err != nil:
		return emptyStyle.Render("Cannot read history: " + m.err.Error())
	case len(m.sessions) == 0:
		return emptyStyle.Render("No sessions recorded yet.\nBalance an egg to start one!")
	}
	return m.table.View()
}

// Sessions returns the rows currently listed.
func (m HistoryModel) Sessions() []storage.SessionRecord {
	return m.sessions
}

// centerText pads text so it is centered in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunHistory runs the history screen.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
