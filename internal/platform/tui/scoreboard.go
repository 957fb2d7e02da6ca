package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/serpent-arena/internal/registry"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

const maxScores = 100

// scoreboardPane is what the table currently lists.
type scoreboardPane int

const (
	paneScores scoreboardPane = iota
	paneSaves
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextGame   key.Binding
	PrevGame   key.Binding
	ToggleSave key.Binding
	Delete     key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.ToggleSave, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.ToggleSave, k.Delete, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev game"),
		),
		ToggleSave: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scores/saves"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTab  = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ScoreboardModel lists high scores per game and the saved snapshots.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	pane       scoreboardPane
	store      *storage.Store
	scores     []storage.ScoreEntry
	stats      *storage.GameStats
	saves      []storage.Snapshot
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	err        error
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column
	switch m.pane {
	case paneSaves:
		columns = []table.Column{
			{Title: "Slot", Width: 12},
			{Title: "Game", Width: 10},
			{Title: "Score", Width: 8},
			{Title: "Saved", Width: 14},
		}
	default:
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: 14},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
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

// reload fetches the rows for the current pane from the store.
func (m *ScoreboardModel) reload() {
	m.scores, m.stats, m.saves, m.err = nil, nil, nil, nil
	if m.store != nil {
		switch m.pane {
		case paneSaves:
			m.saves, m.err = m.store.ListSnapshots()
		default:
			if len(m.games) > 0 {
				id := m.games[m.gameCursor].ID
				m.scores, m.err = m.store.TopScores(id, maxScores)
				if m.err == nil {
					m.stats, m.err = m.store.GetGameStats(id)
				}
			}
		}
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	var rows []table.Row
	switch m.pane {
	case paneSaves:
		rows = make([]table.Row, len(m.saves))
		for i, s := range m.saves {
			rows[i] = table.Row{s.Slot, s.GameID, fmt.Sprintf("%d", s.Score), s.SavedAt.Format("Jan 02 15:04")}
		}
	default:
		rows = make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			rows[i] = table.Row{fmt.Sprintf("#%d", i+1), fmt.Sprintf("%d", s.Score), s.CreatedAt.Format("Jan 02 15:04")}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.ToggleSave):
			if m.pane == paneScores {
				m.pane = paneSaves
			} else {
				m.pane = paneScores
			}
			m.table = m.createTable()
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if m.pane == paneSaves && m.store != nil && len(m.saves) > 0 {
				slot := m.saves[m.table.Cursor()].Slot
				if err := m.store.DeleteSnapshot(slot); err != nil {
					m.err = err
					return m, nil
				}
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.NextGame):
			if m.pane == paneScores && len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if m.pane == paneScores && len(m.games) > 0 {
				m.gameCursor = (m.gameCursor - 1 + len(m.games)) % len(m.games)
				m.reload()
			}
			return m, nil
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

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if m.pane == paneSaves {
		title = "SAVED GAMES"
	}
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.pane == paneScores {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n")
		b.WriteString(centerText(m.renderStats(), m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(panelStyle.Render(m.renderTableContent()))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(toastStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.gameCursor {
			tabs[i] = activeTab.Render(g.Title)
		} else {
			tabs[i] = dimStyle.Render(" " + g.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 && len(m.games) > 0 {
		line = fmt.Sprintf("< %s >", m.games[m.gameCursor].Title)
	}
	return line
}

func (m ScoreboardModel) renderStats() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return dimStyle.Render("no games played")
	}
	return dimStyle.Render(fmt.Sprintf("played %d  best %d  average %.0f",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore))
}

func (m ScoreboardModel) renderTableContent() string {
	empty := ""
	switch {
	case m.store == nil:
		empty = "No score database."
	case m.pane == paneSaves && len(m.saves) == 0:
		empty = "No saved games.\nPress F5 in a game to save it."
	case m.pane == paneScores && len(m.scores) == 0:
		empty = "No scores recorded yet.\nPlay a game to set a high score!"
	}
	if empty != "" {
		return dimStyle.Italic(true).Padding(1, 4).Render(empty)
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
