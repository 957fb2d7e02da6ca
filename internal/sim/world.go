package sim

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Options tune a World beyond its balance table.
type Options struct {
	Seed       int64
	Logger     *log.Logger
	SnakeType  string
	ThemeIndex int
}

// World owns the arena and advances it one frame at a time.
type World struct {
	cfg     config.ArenaConfig
	log     *log.Logger
	rng     *rand.Rand
	themes  *Themes
	placer  Placer
	palette []core.Color

	Player   *Creature
	Enemies  []*Creature
	Food     []Food
	PowerUps []PowerUp
	Effects  []Effect
	Boosts   Boosts

	Score     int
	SnakeType string

	clock      time.Duration
	frame      uint64
	spawnTimer time.Duration
	nextID     int
	stopped    bool
	started    bool
}

// NewWorld builds a fresh arena: the player at the center facing up and
// the food field filled. Enemies arrive through the spawn timer.
func NewWorld(cfg config.ArenaConfig, opts Options) *World {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &World{
		cfg:       cfg,
		log:       logger,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		themes:    NewThemes(cfg.Themes),
		SnakeType: opts.SnakeType,
		Boosts:    Boosts{ScoreMultiplier: 1},
		nextID:    1,
	}
	if w.SnakeType == "" {
		w.SnakeType = cfg.Player.SnakeType
	}
	w.themes.Set(opts.ThemeIndex)
	w.placer = Placer{
		Width:     cfg.World.Width,
		Height:    cfg.World.Height,
		Margin:    cfg.Food.EdgeMargin,
		Clearance: cfg.Food.Clearance,
		Stride:    cfg.Food.ClearanceStride,
		Attempts:  cfg.Food.SpawnAttempts,
	}
	for _, name := range cfg.Enemies.Colors {
		if c, ok := core.ParseColor(name); ok {
			w.palette = append(w.palette, c)
		}
	}
	if len(w.palette) == 0 {
		w.palette = []core.Color{core.ColorRed}
	}

	color, _ := core.ParseColor(cfg.Player.Color)
	center := core.V(cfg.World.Width/2, cfg.World.Height/2)
	w.Player = newPlayer(center, cfg.Player.InitialLength, cfg.Player.SegmentSpacing,
		cfg.PlayerSpeed(), cfg.Player.Thickness, color)

	w.Food = make([]Food, 0, cfg.Food.Count)
	for range cfg.Food.Count {
		w.Food = append(w.Food, Food{Pos: w.placeFood(), Radius: cfg.Food.Radius})
	}
	return w
}

// Start emits the Started event once. Hosts call it before the first Step.
func (w *World) Start() []core.Event {
	if w.started {
		return nil
	}
	w.started = true
	return []core.Event{{Kind: core.EventStarted, Score: w.Score, Name: w.themes.Current().Name}}
}

// Stopped reports whether the player has died.
func (w *World) Stopped() bool { return w.stopped }

// Clock returns the accumulated simulation time.
func (w *World) Clock() time.Duration { return w.clock }

// Theme returns the active theme.
func (w *World) Theme() Theme { return w.themes.Current() }

// Config returns the balance table the world was built with.
func (w *World) Config() config.ArenaConfig { return w.cfg }

// Step advances the world by dt. Once the player has died every call is a
// no-op returning no events.
func (w *World) Step(in Input, dt time.Duration) []core.Event {
	if w.stopped {
		return nil
	}
	var evs []core.Event
	secs := dt.Seconds()
	w.clock += dt
	w.frame++

	p := w.Player
	p.Queue(in.Dirs...)
	p.consumeDirection()
	p.Body.Advance(DiscreteStep(p.Head(), p.Velocity, p.Speed, secs))

	evs = w.tickSpawner(dt, evs)
	w.updateEnemies(secs)

	p.Body.SetHead(Wrap(p.Head(), w.cfg.World.Width, w.cfg.World.Height))
	for _, e := range w.Enemies {
		e.Body.SetHead(Wrap(e.Head(), w.cfg.World.Width, w.cfg.World.Height))
	}

	evs = w.resolveEnemies(evs)
	if w.stopped {
		return evs
	}

	evs = w.updatePowerUps(secs, evs)

	evs = w.resolvePlayerFood(evs)
	if !p.Ghost && SelfHit(p.Head(), &p.Body, w.cfg.Player.SafeZone, p.Thickness-w.cfg.Player.SelfCollisionMargin) {
		evs = w.stop("self", evs)
	}
	return evs
}

// updateEnemies runs decide, steer, advance and wrap for each enemy in
// slice order. Later enemies see earlier ones at their new positions, and
// resolveEnemies settles collisions in the same order.
func (w *World) updateEnemies(secs float64) {
	if len(w.Enemies) == 0 {
		return
	}
	view := View{Food: w.Food, Creatures: w.creatures()}
	for _, e := range w.Enemies {
		d := Decide(view, e, w.cfg.AI, w.rng)
		e.AI.Mode = d.Mode
		e.AI.TargetFood = d.Food
		e.AI.TargetAngle = d.TargetAngle

		e.Heading = SteerToward(e.Heading, d.TargetAngle, e.TurnRate*secs)
		e.Velocity = core.FromAngle(e.Heading, e.Speed)
		e.Body.Advance(e.Head().Add(e.Velocity.Scale(secs)))
		e.Body.SetHead(Wrap(e.Head(), w.cfg.World.Width, w.cfg.World.Height))
	}
}

// resolveEnemies runs the per-enemy collision phase. It returns early with
// a Stopped event when the player runs into an enemy.
func (w *World) resolveEnemies(evs []core.Event) []core.Event {
	p := w.Player
	playerDied := false
	for _, e := range w.Enemies {
		if e.Dead {
			continue
		}
		for i := range w.Food {
			if PointCircle(e.Head(), e.Thickness, w.Food[i].Pos, w.Food[i].Radius) {
				e.Body.Grow(w.cfg.Food.Growth)
				w.Food[i].Pos = w.placeFood()
			}
		}

		if HeadHitsBody(e, p) {
			evs = w.killEnemy(e, evs)
			continue
		}

		if Fatal(p, e) {
			playerDied = true
			break
		}

		for _, other := range w.Enemies {
			if other != e && HeadHitsBody(e, other) {
				evs = w.killEnemy(e, evs)
				break
			}
		}
	}

	alive := w.Enemies[:0]
	for _, e := range w.Enemies {
		if !e.Dead {
			alive = append(alive, e)
		}
	}
	clear(w.Enemies[len(alive):])
	w.Enemies = alive

	if playerDied {
		return w.stop("enemy", evs)
	}
	return evs
}

// killEnemy turns every KillFoodStride-th segment into food, awards the
// kill bonus and marks the enemy for removal.
func (w *World) killEnemy(e *Creature, evs []core.Event) []core.Event {
	stride := max(w.cfg.Enemies.KillFoodStride, 1)
	var dropped []core.Vec2
	for i := 0; i < e.Body.Len(); i += stride {
		pos := e.Body.Segments[i]
		w.Food = append(w.Food, Food{Pos: pos, Radius: w.cfg.Food.Radius})
		dropped = append(dropped, pos)
	}
	e.Dead = true
	evs = append(evs, core.Event{
		Kind:      core.EventEnemyKilled,
		ID:        e.ID,
		Pos:       e.Head(),
		Color:     e.Color,
		Delta:     w.cfg.Enemies.KillBonus,
		Name:      e.Archetype,
		Positions: dropped,
	})
	return w.addScore(w.cfg.Enemies.KillBonus, evs)
}

// updatePowerUps expires and collects power-ups, then reverses elapsed
// effects and applies the magnet pull.
func (w *World) updatePowerUps(secs float64, evs []core.Event) []core.Event {
	p := w.Player
	kept := w.PowerUps[:0]
	for _, pu := range w.PowerUps {
		if pu.Expired(w.clock, w.cfg.PowerUps.Lifetime) {
			evs = append(evs, core.Event{Kind: core.EventPowerUpExpired, Pos: pu.Pos, Name: pu.Type})
			continue
		}
		if PointCircle(p.Head(), p.Thickness/2, pu.Pos, pu.Radius) {
			eff, err := Collect(w.cfg.PowerUps, p, &w.Boosts, pu, w.clock)
			if err != nil {
				w.log.Warn("power-up rejected", "type", pu.Type, "err", err)
				kept = append(kept, pu)
				continue
			}
			w.Effects = append(w.Effects, eff)
			ev := core.Event{Kind: core.EventPowerUpCollected, Pos: pu.Pos, Name: pu.Type}
			if t, ok := w.cfg.PowerUpType(pu.Type); ok {
				ev.Color, _ = core.ParseColor(t.Color)
			}
			evs = append(evs, ev)
			continue
		}
		kept = append(kept, pu)
	}
	clear(w.PowerUps[len(kept):])
	w.PowerUps = kept

	var expired []Effect
	w.Effects, expired = ExpireEffects(p, &w.Boosts, w.Effects, w.clock)
	for _, eff := range expired {
		evs = append(evs, core.Event{Kind: core.EventEffectExpired, Name: eff.Type})
	}

	if r := w.Boosts.MagnetRadius; r > 0 && w.cfg.Food.MagnetPull > 0 {
		w.pullFood(p.Head(), r, w.cfg.Food.MagnetPull*secs)
	}
	return evs
}

// pullFood drifts food inside radius toward head by at most step units.
func (w *World) pullFood(head core.Vec2, radius, step float64) {
	for i := range w.Food {
		f := &w.Food[i]
		dist := core.Dist(f.Pos, head)
		if dist >= radius || dist == 0 {
			continue
		}
		move := math.Min(step, dist)
		f.Pos = f.Pos.Add(head.Sub(f.Pos).Scale(move / dist))
	}
}

func (w *World) resolvePlayerFood(evs []core.Event) []core.Event {
	p := w.Player
	for i := range w.Food {
		f := w.Food[i]
		if !PointCircle(p.Head(), p.Thickness, f.Pos, f.Radius) {
			continue
		}
		points := w.cfg.Food.Value * w.Boosts.ScoreMultiplier
		p.Body.Grow(w.cfg.Food.Growth)
		w.Food[i].Pos = w.placeFood()
		evs = append(evs, core.Event{
			Kind:  core.EventFoodEaten,
			Pos:   f.Pos,
			Delta: points,
			Color: w.themes.Current().Primary,
		})
		evs = w.addScore(points, evs)
		evs = w.maybeSpawnPowerUp(evs)
	}
	return evs
}

func (w *World) addScore(delta int, evs []core.Event) []core.Event {
	w.Score += delta
	evs = append(evs, core.Event{Kind: core.EventScoreChanged, Score: w.Score, Delta: delta})
	if w.themes.Advance(w.Score) {
		t := w.themes.Current()
		evs = append(evs, core.Event{Kind: core.EventThemeChanged, Name: t.Name, Color: t.Primary})
	}
	return evs
}

func (w *World) stop(reason string, evs []core.Event) []core.Event {
	w.stopped = true
	return append(evs, core.Event{Kind: core.EventStopped, Score: w.Score, Name: reason, Pos: w.Player.Head()})
}

func (w *World) maybeSpawnPowerUp(evs []core.Event) []core.Event {
	types := w.cfg.PowerUps.Types
	if len(types) == 0 || w.rng.Float64() >= w.cfg.PowerUps.SpawnChance {
		return evs
	}
	t := types[w.rng.Intn(len(types))]
	pl := Placer{Width: w.cfg.World.Width, Height: w.cfg.World.Height, Margin: w.cfg.PowerUps.SpawnMargin}
	pos, _ := pl.Place(w.rng, nil)
	w.PowerUps = append(w.PowerUps, PowerUp{Pos: pos, Radius: w.cfg.PowerUps.Radius, Type: t.Name, CreatedAt: w.clock})
	return append(evs, core.Event{Kind: core.EventPowerUpSpawned, Pos: pos, Name: t.Name})
}

func (w *World) tickSpawner(dt time.Duration, evs []core.Event) []core.Event {
	if w.cfg.Enemies.Max <= 0 {
		return evs
	}
	w.spawnTimer += dt
	if w.spawnTimer <= w.cfg.Enemies.SpawnInterval {
		return evs
	}
	w.spawnTimer = 0
	if len(w.Enemies) >= w.cfg.Enemies.Max {
		return evs
	}
	e := w.SpawnEnemy()
	return append(evs, core.Event{Kind: core.EventEnemySpawned, ID: e.ID, Pos: e.Head(), Color: e.Color, Name: e.Archetype})
}

// SpawnEnemy adds one enemy at least SpawnMinDistance from the player,
// rolling its archetype and color.
func (w *World) SpawnEnemy() *Creature {
	ec := w.cfg.Enemies
	var pos core.Vec2
	placed := false
	for range max(ec.SpawnAttempts, 1) {
		pos = core.V(w.rng.Float64()*w.cfg.World.Width, w.rng.Float64()*w.cfg.World.Height)
		if core.Dist(pos, w.Player.Head()) >= ec.SpawnMinDistance {
			placed = true
			break
		}
	}
	if !placed {
		w.log.Debug("enemy spawn fell back", "x", pos.X, "y", pos.Y)
	}

	arch := w.rollArchetype()
	speed := ec.BaseSpeed * arch.SpeedScale
	e := &Creature{
		ID:        w.nextID,
		Kind:      KindEnemy,
		Heading:   -math.Pi / 2,
		Speed:     speed,
		BaseSpeed: speed,
		TurnRate:  ec.TurnRate,
		Thickness: ec.BaseThickness * arch.ThicknessScale,
		Color:     w.palette[w.rng.Intn(len(w.palette))],
		Archetype: arch.Name,
		AI:        AIState{TargetFood: -1, WanderAngle: w.rng.Float64() * 2 * math.Pi},
	}
	w.nextID++
	e.Velocity = core.FromAngle(e.Heading, e.Speed)
	e.Body.Reset(pos, e.Heading, arch.Length, ec.SegmentSpacing)
	w.Enemies = append(w.Enemies, e)
	return e
}

func (w *World) rollArchetype() config.ArchetypeSpec {
	roll := w.rng.Float64()
	for _, a := range w.cfg.Enemies.Archetypes {
		if roll >= a.RollMin && roll < a.RollMax {
			return a
		}
	}
	if n := len(w.cfg.Enemies.Archetypes); n > 0 {
		return w.cfg.Enemies.Archetypes[n-1]
	}
	return config.ArchetypeSpec{Name: "normal", Length: 40, ThicknessScale: 1, SpeedScale: 1}
}

func (w *World) placeFood() core.Vec2 {
	pos, ok := w.placer.Place(w.rng, w.bodies())
	if !ok {
		w.log.Debug("food spawn fell back", "x", pos.X, "y", pos.Y)
	}
	return pos
}

func (w *World) creatures() []*Creature {
	all := make([]*Creature, 0, len(w.Enemies)+1)
	all = append(all, w.Player)
	return append(all, w.Enemies...)
}

func (w *World) bodies() []*Body {
	if w.Player == nil {
		return nil
	}
	out := make([]*Body, 0, len(w.Enemies)+1)
	out = append(out, &w.Player.Body)
	for _, e := range w.Enemies {
		if !e.Dead {
			out = append(out, &e.Body)
		}
	}
	return out
}
