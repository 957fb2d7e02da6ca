package tui

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/serpent-arena/internal/core"
	"github.com/vovakirdan/serpent-arena/internal/platform/web"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

// fakeGame records what the host hands it.
type fakeGame struct {
	id      string
	dts     []time.Duration
	presses [][]core.Action
	state   core.GameState
	events  []core.Event
	resets  int
	resized bool
}

func (g *fakeGame) ID() string { return g.id }
func (g *fakeGame) Title() string { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) { g.resets++; g.state = core.GameState{} }
func (g *fakeGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "score "+strconv.Itoa(g.state.Score)) }
func (g *fakeGame) State() core.GameState { return g.state }
func (g *fakeGame) Resize(int, int) { g.resized = true }
func (g *fakeGame) Save() ([]byte, error) { return []byte(strconv.Itoa(g.state.Score)), nil }

func (g *fakeGame) Load(data []byte) error {
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	g.state = core.GameState{Score: n, Paused: true}
	return nil
}

func (g *fakeGame) Step(in core.InputFrame, dt time.Duration) core.StepResult {
	g.dts = append(g.dts, dt)
	g.presses = append(g.presses, append([]core.Action(nil), in.Presses...))
	if in.Has(core.ActionPause) {
		g.state.Paused = !g.state.Paused
	}
	evs := g.events
	g.events = nil
	return core.StepResult{State: g.state, Events: evs}
}

type recordingFeed struct {
	frames []web.Frame
}

func (f *recordingFeed) Publish(fr web.Frame) {
	f.frames = append(f.frames, fr)
}

func newTestModel(t *testing.T, g *fakeGame, opts Options) Model {
	t.Helper()
	m := NewModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 1}, opts)
	m.Init()
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm
}

func tick(t *testing.T, m Model, at time.Time) Model {
	t.Helper()
	return update(t, m, TickMsg(at))
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestModelFrameDeltas(t *testing.T) {
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{})
	t0 := time.Unix(5000, 0)

	m = tick(t, m, t0)
	m = tick(t, m, t0.Add(16*time.Millisecond))
	m = tick(t, m, t0.Add(5*time.Second))

	expected := []time.Duration{0, 16 * time.Millisecond, 100 * time.Millisecond}
	if len(g.dts) != len(expected) {
		t.Fatalf("Step() called %d times, expected %d", len(g.dts), len(expected))
	}
	for i, dt := range expected {
		if g.dts[i] != dt {
			t.Errorf("dt[%d] = %v, expected %v", i, g.dts[i], dt)
		}
	}
}

func TestModelPauseStopsClock(t *testing.T) {
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{})
	t0 := time.Unix(5000, 0)

	m = tick(t, m, t0)
	m = update(t, m, runeKey("p"))
	m = tick(t, m, t0.Add(16*time.Millisecond))
	if !m.State().Paused {
		t.Fatal("expected game to be paused")
	}

	// Resume long after pausing: the first step after must not see the gap.
	m = update(t, m, runeKey("p"))
	m = tick(t, m, t0.Add(10*time.Second))
	tick(t, m, t0.Add(10*time.Second+20*time.Millisecond))

	last := g.dts[len(g.dts)-2:]
	if last[0] != 0 || last[1] != 20*time.Millisecond {
		t.Errorf("dts after resume = %v, expected [0 20ms]", last)
	}
}

func TestModelPressesInOrder(t *testing.T) {
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{})

	m = update(t, m, runeKey("w"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, runeKey("z"))
	m = tick(t, m, time.Unix(1, 0))
	tick(t, m, time.Unix(2, 0))

	got := g.presses[0]
	if len(got) != 2 || got[0] != core.ActionUp || got[1] != core.ActionLeft {
		t.Errorf("presses = %v, expected [Up Left]", got)
	}
	if len(g.presses[1]) != 0 {
		t.Errorf("presses not cleared between ticks: %v", g.presses[1])
	}
}

func TestModelRestartOnlyWhenOver(t *testing.T) {
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{})
	resets := g.resets

	m = update(t, m, runeKey("r"))
	m = tick(t, m, time.Unix(1, 0))
	if g.resets != resets {
		t.Fatalf("restart while running reset the game")
	}

	g.state.GameOver = true
	m = tick(t, m, time.Unix(2, 0))
	m = update(t, m, runeKey("r"))
	tick(t, m, time.Unix(3, 0))
	if g.resets != resets+1 {
		t.Errorf("resets = %d, expected %d", g.resets, resets+1)
	}
}

func TestModelSavesScoreOnce(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{Store: store})

	g.state = core.GameState{Score: 70, GameOver: true}
	m = tick(t, m, time.Unix(1, 0))
	tick(t, m, time.Unix(2, 0))

	scores, err := store.TopScores("fake", 10)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 70 {
		t.Errorf("scores = %v, expected one entry of 70", scores)
	}
}

func TestModelPublishesOnlyEventfulSteps(t *testing.T) {
	feed := &recordingFeed{}
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{Feed: feed})

	g.events = []core.Event{{Kind: core.EventStarted}}
	m = tick(t, m, time.Unix(1, 0))
	tick(t, m, time.Unix(2, 0))

	if len(feed.frames) != 1 {
		t.Fatalf("published %d frames, expected 1", len(feed.frames))
	}
	if feed.frames[0].Game != "fake" || !core.HasKind(feed.frames[0].Events, core.EventStarted) {
		t.Errorf("frame = %+v", feed.frames[0])
	}
}

func TestModelQuickSaveAndLoad(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{Store: store})

	g.state.Score = 42
	m = tick(t, m, time.Unix(1, 0))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyF5})
	if m.toast != "Saved" {
		t.Fatalf("toast = %q, expected Saved", m.toast)
	}

	snap, err := store.LoadSnapshot(storage.QuickSlot)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if snap.GameID != "fake" || snap.Score != 42 {
		t.Errorf("snapshot = %+v, expected fake/42", snap)
	}

	g.state.Score = 5
	m = update(t, m, tea.KeyMsg{Type: tea.KeyF9})
	if m.State().Score != 42 || !m.State().Paused {
		t.Errorf("State() after load = %+v, expected score 42 paused", m.State())
	}
}

func TestModelQuickLoadRejectsOtherGame(t *testing.T) {
	store := openStore(t)
	if err := store.SaveSnapshot(storage.QuickSlot, "other", 9, []byte("9")); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{Store: store})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyF9})
	if !strings.Contains(m.toast, "other") {
		t.Errorf("toast = %q, expected mention of other game", m.toast)
	}
	if g.state.Score != 0 {
		t.Errorf("score = %d, expected untouched", g.state.Score)
	}
}

func TestModelQuickLoadEmptySlot(t *testing.T) {
	store := openStore(t)
	m := newTestModel(t, &fakeGame{id: "fake"}, Options{Store: store})

	if _, err := store.LoadSnapshot(storage.QuickSlot); !errors.Is(err, storage.ErrNoSnapshot) {
		t.Fatalf("LoadSnapshot() error = %v, expected ErrNoSnapshot", err)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyF9})
	if m.toast != "No quick save yet" {
		t.Errorf("toast = %q", m.toast)
	}
}

func TestModelResizeKeepsResizableGames(t *testing.T) {
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{})
	resets := g.resets

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if !g.resized || g.resets != resets {
		t.Errorf("resized = %v resets = %d, expected resize without reset", g.resized, g.resets)
	}
	if m.screen.Width() != 100 || m.screen.Height() != 29 {
		t.Errorf("screen = %dx%d, expected 100x29", m.screen.Width(), m.screen.Height())
	}
}

func TestModelBackOnlyWhenEmbeddedAndPaused(t *testing.T) {
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("standalone model went back to menu")
	}

	m.embedded = true
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("running game went back to menu")
	}

	g.state.Paused = true
	m = tick(t, m, time.Unix(1, 0))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("paused embedded game did not go back to menu")
	}
}

func TestModelViewHasStatusLine(t *testing.T) {
	g := &fakeGame{id: "fake"}
	m := newTestModel(t, g, Options{})
	g.state.Score = 3

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 12 {
		t.Fatalf("View() has %d lines, expected 12", len(lines))
	}
	if !strings.Contains(lines[0], "score 3") {
		t.Errorf("first line = %q, expected game output", lines[0])
	}
}
