// Package classic is the single-snake variant: left/right turn steering,
// one food item and a field sized from the terminal.
package classic

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
	"github.com/vovakirdan/serpent-arena/internal/registry"
	"github.com/vovakirdan/serpent-arena/internal/sim"
)

// ID is the registry id and score key.
const ID = "classic"

const (
	hudHeight = 2

	// Terminals report presses but not releases, so a press keeps turning
	// until key repeat would have sent the next one.
	steerHold = 150 * time.Millisecond

	foodAttempts = 50
	foodMargin   = 20
)

// Game implements the classic variant.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.ClassicConfig
	themes  *sim.Themes
	rng     *rand.Rand
	placer  sim.Placer

	body    sim.Body
	heading float64
	food    sim.Food

	width  float64
	height float64

	steer     int
	steerLeft time.Duration

	score    int
	started  bool
	gameOver bool
	paused   bool
}

var (
	configPath string
	logger     *log.Logger
)

// SetConfigPath sets the custom config path used by Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetLogger sets the logger used to report config fallbacks.
func SetLogger(l *log.Logger) {
	logger = l
}

// New creates a classic game. Call Reset before stepping it.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Serpent Classic"
}

// Reset sizes the field from the screen and starts a new round.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	full, err := config.Load(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("classic config rejected, using defaults", "err", err)
		}
		full = config.DefaultArenaConfig()
	}
	g.runtime = runtime
	g.cfg = full.Classic
	g.themes = sim.NewThemes(full.Themes)

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	g.width = float64(max(runtime.ScreenW, 1)) * g.cfg.CellSize
	g.height = float64(max(runtime.ScreenH-hudHeight, 1)) * g.cfg.CellSize * 2
	g.placer = sim.Placer{
		Width:     g.width,
		Height:    g.height,
		Margin:    foodMargin,
		Clearance: g.cfg.FoodClearance,
		Stride:    g.cfg.ClearanceStep,
		Attempts:  foodAttempts,
	}

	g.heading = -math.Pi / 2
	g.body = sim.Body{}
	g.body.Reset(core.V(g.width/2, g.height/2), g.heading, g.cfg.InitialLength, g.cfg.SegmentSpacing)
	g.food = sim.Food{Radius: g.cfg.FoodRadius}
	g.food.Pos, _ = g.placer.Place(g.rng, []*sim.Body{&g.body})

	g.steer = 0
	g.steerLeft = 0
	g.score = 0
	g.started = false
	g.gameOver = false
	g.paused = false
}

// Step turns, moves and wraps the snake, then checks food and self hits.
func (g *Game) Step(in core.InputFrame, dt time.Duration) core.StepResult {
	var evs []core.Event
	if !g.started {
		g.started = true
		evs = append(evs, core.Event{Kind: core.EventStarted, Name: g.themes.Current().Name})
	}
	if g.gameOver {
		return core.StepResult{State: g.State(), Events: evs}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State(), Events: evs}
	}

	turn := g.turnInput(in, dt)
	secs := dt.Seconds()
	heading, next := sim.TurnStep(g.body.Head(), g.heading, turn, g.cfg.TurnRate, g.cfg.Speed, secs)
	g.heading = core.NormalizeAngle(heading)
	g.body.Advance(next)
	g.body.SetHead(sim.Wrap(g.body.Head(), g.width, g.height))

	if sim.PointCircle(g.body.Head(), g.cfg.Thickness, g.food.Pos, g.food.Radius) {
		eaten := g.food.Pos
		g.score += g.cfg.FoodValue
		g.body.Grow(g.cfg.Growth)
		g.food.Pos, _ = g.placer.Place(g.rng, []*sim.Body{&g.body})
		evs = append(evs,
			core.Event{Kind: core.EventFoodEaten, Pos: eaten, Delta: g.cfg.FoodValue, Color: g.themes.Current().Primary},
			core.Event{Kind: core.EventScoreChanged, Score: g.score, Delta: g.cfg.FoodValue},
		)
		if g.themes.Advance(g.score) {
			t := g.themes.Current()
			evs = append(evs, core.Event{Kind: core.EventThemeChanged, Name: t.Name, Color: t.Primary})
		}
	}

	if sim.SelfHit(g.body.Head(), &g.body, g.cfg.SafeZone, g.cfg.Thickness) {
		g.gameOver = true
		evs = append(evs, core.Event{Kind: core.EventStopped, Score: g.score, Name: "self", Pos: g.body.Head()})
	}

	return core.StepResult{State: g.State(), Events: evs}
}

// turnInput resolves the turn direction for this frame: -1 left, +1 right.
// Held keys win; otherwise the last press keeps steering for steerHold.
func (g *Game) turnInput(in core.InputFrame, dt time.Duration) int {
	left, right := in.Held[core.ActionLeft], in.Held[core.ActionRight]
	if left != right {
		if left {
			return -1
		}
		return 1
	}
	for _, a := range in.Presses {
		switch a {
		case core.ActionLeft:
			g.steer, g.steerLeft = -1, steerHold
		case core.ActionRight:
			g.steer, g.steerLeft = 1, steerHold
		}
	}
	if g.steerLeft <= 0 {
		return 0
	}
	g.steerLeft -= dt
	return g.steer
}

// Render draws the field scaled onto the screen below the HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.themes == nil {
		return
	}
	theme := g.themes.Current()

	hud := fmt.Sprintf(" Serpent Classic | Score: %d  Length: %d  Theme: %s", g.score, g.body.TargetLength, theme.Name)
	dst.DrawTextColored(0, 0, hud, theme.Primary)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}

	if x, y, ok := g.cell(dst, g.food.Pos); ok {
		dst.SetColored(x, y, '•', theme.Secondary)
	}
	for i := len(g.body.Segments) - 1; i >= 0; i-- {
		x, y, ok := g.cell(dst, g.body.Segments[i])
		if !ok {
			continue
		}
		r := 'o'
		if i == 0 {
			r = 'O'
		}
		dst.SetColored(x, y, r, theme.Primary)
	}

	switch {
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d  Press R to restart", g.score))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) cell(dst *core.Screen, p core.Vec2) (x, y int, ok bool) {
	x = int(p.X / g.cfg.CellSize)
	y = hudHeight + int(p.Y/(g.cfg.CellSize*2))
	return x, y, x >= 0 && x < dst.Width() && y >= hudHeight && y < dst.Height()
}

func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	width := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := core.NewRect((dst.Width()-width)/2, (dst.Height()-5)/2, width, 5)
	dst.DrawRect(core.NewRect(box.X+1, box.Y+1, box.W-2, box.H-2), ' ')
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}
