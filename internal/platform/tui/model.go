package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/serpent-arena/internal/core"
	"github.com/vovakirdan/serpent-arena/internal/platform/web"
	"github.com/vovakirdan/serpent-arena/internal/registry"
	"github.com/vovakirdan/serpent-arena/internal/storage"
	"github.com/vovakirdan/serpent-arena/internal/taunt"
)

const (
	toastDuration     = 3 * time.Second
	defaultFrameDelta = 100 * time.Millisecond
)

// Publisher receives one frame per step that produced events.
type Publisher interface {
	Publish(f web.Frame)
}

// Options are the optional collaborators of a hosted game.
type Options struct {
	Store         *storage.Store
	Commentator   *taunt.Commentator
	Feed          Publisher
	MaxFrameDelta time.Duration // clamp for a single step, default 100ms
	Slot          string        // quick save slot, default storage.QuickSlot
	Logger        *log.Logger
}

// TauntMsg delivers a commentator line to the model.
type TauntMsg taunt.Taunt

// Model is the Bubble Tea model for running a game.
type Model struct {
	game   registry.Game
	screen *core.Screen
	config core.RuntimeConfig
	opts   Options
	log    *log.Logger
	keys   KeyMap
	help   help.Model

	inputFrame core.InputFrame
	gameState  core.GameState
	last       time.Time // previous tick; zero while the clock is stopped

	toast      string
	toastUntil time.Time

	quitting   bool
	backToMenu bool
	embedded   bool // hosted inside a session menu: esc returns to it
	scoreSaved bool
}

// NewModel creates a model for the given game. The last terminal row is
// reserved for the status line, so the game sees one row less.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.ScreenH = max(cfg.ScreenH-1, 1)
	if opts.MaxFrameDelta <= 0 {
		opts.MaxFrameDelta = defaultFrameDelta
	}
	if opts.Slot == "" {
		opts.Slot = storage.QuickSlot
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		opts:       opts,
		log:        logger,
		keys:       DefaultKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
	}
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tea.Batch(tickCmd(m.config.TickRate), m.waitForTaunt())
}

// waitForTaunt blocks on the commentator's output for one line.
func (m Model) waitForTaunt() tea.Cmd {
	if m.opts.Commentator == nil {
		return nil
	}
	ch := m.opts.Commentator.Taunts()
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return TauntMsg(t)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case TauntMsg:
		m.showToast(msg.Text)
		return m, m.waitForTaunt()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, quit := m.keys.MapKey(msg)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone:
	case core.ActionSave:
		m.quickSave()
	case core.ActionLoad:
		m.quickLoad()
	case core.ActionBack:
		if m.embedded && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
		}
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Press(core.ActionRestart)
		}
	default:
		m.inputFrame.Press(action)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = max(msg.Height-1, 1)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(m.config.ScreenW, m.config.ScreenH)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.last = time.Time{}
	}
	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.last = time.Time{}
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	dt := frameDelta(m.last, now, m.opts.MaxFrameDelta)
	result := m.game.Step(m.inputFrame, dt)
	m.gameState = result.State

	// A paused or finished game must not see the idle time as one huge step
	// when it resumes.
	if m.gameState.Paused || m.gameState.GameOver {
		m.last = time.Time{}
	} else {
		m.last = now
	}

	m.dispatch(result.Events)

	if m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		if m.opts.Store != nil {
			//nolint:errcheck // Best-effort save, game continues regardless
			m.opts.Store.SaveScore(m.game.ID(), m.gameState.Score)
		}
		m.scoreSaved = true
	}

	if m.toast != "" && now.After(m.toastUntil) {
		m.toast = ""
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// dispatch hands step events to the commentator and the web feed.
func (m Model) dispatch(evs []core.Event) {
	if len(evs) == 0 {
		return
	}
	if m.opts.Commentator != nil {
		m.opts.Commentator.Observe(evs)
	}
	if m.opts.Feed != nil {
		m.opts.Feed.Publish(web.Frame{
			Game:   m.game.ID(),
			Score:  m.gameState.Score,
			Events: evs,
		})
	}
}

func (m *Model) showToast(text string) {
	m.toast = text
	m.toastUntil = time.Now().Add(toastDuration)
}

// quickSave writes the game to the quick save slot.
func (m *Model) quickSave() {
	saver, ok := m.game.(registry.Saver)
	if !ok {
		m.showToast("This game cannot be saved")
		return
	}
	if m.opts.Store == nil {
		m.showToast("No database, cannot save")
		return
	}
	data, err := saver.Save()
	if err == nil {
		err = m.opts.Store.SaveSnapshot(m.opts.Slot, m.game.ID(), m.gameState.Score, data)
	}
	if err != nil {
		m.log.Error("quick save", "game", m.game.ID(), "err", err)
		m.showToast("Save failed")
		return
	}
	m.showToast("Saved")
}

// quickLoad restores the quick save slot. The game comes back paused.
func (m *Model) quickLoad() {
	saver, ok := m.game.(registry.Saver)
	if !ok {
		m.showToast("This game cannot be loaded")
		return
	}
	if m.opts.Store == nil {
		m.showToast("No database, cannot load")
		return
	}
	snap, err := m.opts.Store.LoadSnapshot(m.opts.Slot)
	if errors.Is(err, storage.ErrNoSnapshot) {
		m.showToast("No quick save yet")
		return
	}
	if err != nil {
		m.log.Error("quick load", "err", err)
		m.showToast("Load failed")
		return
	}
	if snap.GameID != m.game.ID() {
		m.showToast(fmt.Sprintf("Quick save belongs to %s", snap.GameID))
		return
	}
	if err := saver.Load(snap.Data); err != nil {
		m.log.Error("quick load", "game", snap.GameID, "err", err)
		m.showToast("Load failed")
		return
	}
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.last = time.Time{}
	m.showToast("Loaded, press p to resume")
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".serpent", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
	m.showToast("Screenshot saved to " + path)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last state reported by the game.
func (m Model) State() core.GameState {
	return m.gameState
}

// View renders the playfield and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	status := renderStatus(m.toast, m.help.View(m.keys), m.config.ScreenW)
	return RenderScreen(m.screen) + "\n" + status
}

// Run starts the Bubble Tea program for one game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
