package classic

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
	"github.com/vovakirdan/serpent-arena/internal/sim"
)

const dt = 100 * time.Millisecond

func newGame(t *testing.T) *Game {
	t.Helper()
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 3})
	// Keep the food out of the snake's column.
	g.food.Pos = core.V(50, 50)
	return g
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Press(a)
	}
	return in
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBadConfigFallsBackWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	if err := os.WriteFile(path, []byte("classic: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	SetConfigPath(path)
	SetLogger(log.New(&buf))
	t.Cleanup(func() {
		SetConfigPath("")
		SetLogger(nil)
	})

	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 3})

	if !strings.Contains(buf.String(), "classic config rejected") {
		t.Errorf("log = %q, expected a config warning", buf.String())
	}
	if want := config.DefaultArenaConfig().Classic.CellSize; g.cfg.CellSize != want {
		t.Errorf("CellSize = %v, expected default %v", g.cfg.CellSize, want)
	}
}

func TestFieldSizedFromScreen(t *testing.T) {
	g := newGame(t)
	if g.width != 800 || g.height != 440 {
		t.Errorf("field = %vx%v, expected 800x440", g.width, g.height)
	}
	if head := g.body.Head(); head != core.V(400, 220) {
		t.Errorf("head = %v, expected (400,220)", head)
	}
	if g.body.Len() != 20 {
		t.Errorf("Len() = %d, expected 20", g.body.Len())
	}
}

func TestTurnSteering(t *testing.T) {
	tests := []struct {
		name   string
		frames []core.InputFrame
		want   float64
	}{
		{
			name:   "straight",
			frames: []core.InputFrame{core.NewInputFrame()},
			want:   -math.Pi / 2,
		},
		{
			name:   "left press",
			frames: []core.InputFrame{press(core.ActionLeft)},
			want:   -math.Pi/2 - 0.4,
		},
		{
			name:   "right press",
			frames: []core.InputFrame{press(core.ActionRight)},
			want:   -math.Pi/2 + 0.4,
		},
		{
			name:   "press holds for one more frame",
			frames: []core.InputFrame{press(core.ActionLeft), core.NewInputFrame(), core.NewInputFrame()},
			want:   -math.Pi/2 - 0.8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t)
			for _, in := range tt.frames {
				g.Step(in, dt)
			}
			if !approx(g.heading, tt.want) {
				t.Errorf("heading = %v, expected %v", g.heading, tt.want)
			}
		})
	}
}

func TestHeldKeysSteer(t *testing.T) {
	g := newGame(t)
	in := core.NewInputFrame()
	in.Hold(core.ActionRight)
	g.Step(in, dt)
	g.Step(in, dt)
	if !approx(g.heading, -math.Pi/2+0.8) {
		t.Errorf("heading = %v, expected %v", g.heading, -math.Pi/2+0.8)
	}

	both := core.NewInputFrame()
	both.Hold(core.ActionLeft)
	both.Hold(core.ActionRight)
	before := g.heading
	g.Step(both, dt)
	if !approx(g.heading, before) {
		t.Errorf("heading with both held = %v, expected %v", g.heading, before)
	}
}

func TestEatFood(t *testing.T) {
	g := newGame(t)
	g.food.Pos = core.V(400, 205)

	res := g.Step(core.NewInputFrame(), dt)
	if res.State.Score != 10 {
		t.Errorf("Score = %d, expected 10", res.State.Score)
	}
	if !core.HasKind(res.Events, core.EventFoodEaten) || !core.HasKind(res.Events, core.EventScoreChanged) {
		t.Errorf("events = %v, expected FoodEaten and ScoreChanged", res.Events)
	}
	if g.body.PendingGrowth != 10 || g.body.TargetLength != 20 {
		t.Errorf("growth = (pending %d, target %d), expected (10, 20)", g.body.PendingGrowth, g.body.TargetLength)
	}
	if g.food.Pos == core.V(400, 205) {
		t.Errorf("food was not respawned")
	}
}

func TestThemeAdvancesWithScore(t *testing.T) {
	g := newGame(t)
	g.score = 90
	g.food.Pos = core.V(400, 205)

	res := g.Step(core.NewInputFrame(), dt)
	if !core.HasKind(res.Events, core.EventThemeChanged) {
		t.Fatalf("events = %v, expected ThemeChanged", res.Events)
	}
	if name := g.themes.Current().Name; name != "Cyber Red" {
		t.Errorf("theme = %q, expected %q", name, "Cyber Red")
	}
}

func TestWrapsAtEdges(t *testing.T) {
	g := newGame(t)
	g.body.Reset(core.V(1, 100), math.Pi, 5, 2)
	g.heading = math.Pi

	g.Step(core.NewInputFrame(), dt)
	if head := g.body.Head(); head.X != g.width {
		t.Errorf("head = %v, expected x = %v", head, g.width)
	}
}

func TestSelfCollisionStops(t *testing.T) {
	g := newGame(t)
	// Every segment past the head sits where the head arrives next.
	segs := make([]core.Vec2, 40)
	segs[0] = g.body.Head()
	for i := 1; i < len(segs); i++ {
		segs[i] = core.V(400, 205)
	}
	g.body = sim.Body{Segments: segs, TargetLength: len(segs)}

	res := g.Step(core.NewInputFrame(), dt)
	if !res.State.GameOver {
		t.Fatalf("GameOver = false, expected true")
	}
	if core.CountKind(res.Events, core.EventStopped) != 1 {
		t.Errorf("events = %v, expected one Stopped", res.Events)
	}

	// Later steps are inert.
	res = g.Step(press(core.ActionLeft), dt)
	if len(res.Events) != 0 {
		t.Errorf("events after game over = %v, expected none", res.Events)
	}
}

func TestPauseAndStarted(t *testing.T) {
	g := newGame(t)
	res := g.Step(press(core.ActionPause), dt)
	if !core.HasKind(res.Events, core.EventStarted) {
		t.Errorf("first Step() events = %v, expected Started", res.Events)
	}
	if !res.State.Paused {
		t.Fatalf("Paused = false after pause press")
	}
	head := g.body.Head()
	g.Step(core.NewInputFrame(), dt)
	if g.body.Head() != head {
		t.Errorf("snake moved while paused")
	}
}

func TestRender(t *testing.T) {
	g := newGame(t)
	scr := core.NewScreen(80, 24)
	g.Render(scr)

	// (400,220) maps to column 40, row 2+11.
	if got := scr.Get(40, 13); got != 'O' {
		t.Errorf("head cell = %q, expected 'O'", got)
	}
	if got := scr.Get(5, 4); got != '•' {
		t.Errorf("food cell = %q, expected '•'", got)
	}
}
