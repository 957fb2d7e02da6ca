// Package arena is the continuous-space snake arena: one player, a food
// field, AI enemies and power-ups over a wrapping world.
package arena

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
	"github.com/vovakirdan/serpent-arena/internal/registry"
	"github.com/vovakirdan/serpent-arena/internal/sim"
)

// ID is the registry id and score key.
const ID = "arena"

// ErrNoWorld is returned when saving before Reset.
var ErrNoWorld = errors.New("arena: no world")

// Game adapts sim.World to the registry.Game interface.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.ArenaConfig
	world   *sim.World
	paused  bool
}

var (
	configPath  string
	speedPreset string
	snakeType   string
	logger      *log.Logger
)

// SetConfigPath sets the custom config path used by Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetSpeedPreset overrides the configured player speed preset.
func SetSpeedPreset(preset string) {
	speedPreset = preset
}

// SetSnakeType overrides the configured snake type tag.
func SetSnakeType(kind string) {
	snakeType = kind
}

// SetLogger sets the logger handed to new worlds.
func SetLogger(l *log.Logger) {
	logger = l
}

// New creates an arena game. Call Reset before stepping it.
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
	return "Serpent Arena"
}

// Reset loads the arena config and builds a fresh world.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.cfg = loadConfig()
	g.paused = false

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.world = sim.NewWorld(g.cfg, sim.Options{
		Seed:      seed,
		Logger:    logger,
		SnakeType: snakeType,
	})
}

// loadConfig applies the CLI overrides on top of the loaded config.
// A bad file or preset falls back to defaults with a warning.
func loadConfig() config.ArenaConfig {
	cfg, err := config.Load(configPath)
	if err != nil {
		warn("arena config rejected, using defaults", "err", err)
		cfg = config.DefaultArenaConfig()
	}
	if speedPreset != "" {
		if _, err := config.SpeedForPreset(config.SpeedPreset(speedPreset)); err != nil {
			warn("ignoring speed preset", "err", err)
		} else {
			cfg.Player.SpeedPreset = speedPreset
		}
	}
	if snakeType != "" && !config.IsSnakeType(snakeType) {
		warn("unknown snake type", "type", snakeType)
	}
	return cfg
}

func warn(msg string, kv ...any) {
	if logger != nil {
		logger.Warn(msg, kv...)
	}
}

// Step applies pause toggles and advances the world by dt.
// The first call also carries the Started event.
func (g *Game) Step(in core.InputFrame, dt time.Duration) core.StepResult {
	if g.world == nil {
		return core.StepResult{State: g.State()}
	}
	evs := g.world.Start()

	if in.Has(core.ActionPause) && !g.world.Stopped() {
		g.paused = !g.paused
	}
	if g.paused || g.world.Stopped() {
		return core.StepResult{State: g.State(), Events: evs}
	}

	evs = append(evs, g.world.Step(sim.Input{Dirs: Directions(in)}, dt)...)
	return core.StepResult{State: g.State(), Events: evs}
}

// Resize records the new terminal size. The world is independent of the
// terminal, so nothing else changes.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
}

// Directions extracts direction presses in arrival order.
func Directions(in core.InputFrame) []sim.Direction {
	var dirs []sim.Direction
	for _, a := range in.Presses {
		switch a {
		case core.ActionUp:
			dirs = append(dirs, sim.DirUp)
		case core.ActionDown:
			dirs = append(dirs, sim.DirDown)
		case core.ActionLeft:
			dirs = append(dirs, sim.DirLeft)
		case core.ActionRight:
			dirs = append(dirs, sim.DirRight)
		}
	}
	return dirs
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.world == nil {
		return core.GameState{Paused: g.paused}
	}
	return core.GameState{
		Score:    g.world.Score,
		GameOver: g.world.Stopped(),
		Paused:   g.paused,
	}
}

// World exposes the running simulation for hosts that observe it.
func (g *Game) World() *sim.World {
	return g.world
}

// Save encodes the full world as a snapshot.
func (g *Game) Save() ([]byte, error) {
	if g.world == nil {
		return nil, ErrNoWorld
	}
	return g.world.Snapshot().Encode()
}

// Load replaces the world with a decoded snapshot. The game resumes paused.
func (g *Game) Load(data []byte) error {
	snap, err := sim.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("arena: load: %w", err)
	}
	seed := g.runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, err := sim.Restore(g.cfg, snap, sim.Options{Seed: seed, Logger: logger})
	if err != nil {
		return fmt.Errorf("arena: load: %w", err)
	}
	g.world = w
	g.paused = true
	return nil
}
