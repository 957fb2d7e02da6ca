package sim

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

func TestStartEmitsOnce(t *testing.T) {
	w := newTestWorld()
	evs := w.Start()
	if len(evs) != 1 || evs[0].Kind != core.EventStarted {
		t.Fatalf("Start() = %v, expected one Started event", evs)
	}
	if evs := w.Start(); len(evs) != 0 {
		t.Errorf("second Start() = %v, expected nothing", evs)
	}
}

func TestFoodConsumedJustInsideReach(t *testing.T) {
	tests := []struct {
		name       string
		multiplier int
	}{
		{"plain", 1},
		{"doubled", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld()
			w.Boosts.ScoreMultiplier = tc.multiplier
			p := w.Player

			next := DiscreteStep(p.Head(), p.Velocity, p.Speed, testDT.Seconds())
			reach := p.Thickness + w.cfg.Food.Radius - 1e-6
			placed := next.Add(core.V(reach, 0))
			w.Food[0] = Food{Pos: placed, Radius: w.cfg.Food.Radius}

			evs := w.Step(Input{}, testDT)

			if !core.HasKind(evs, core.EventFoodEaten) {
				t.Fatalf("expected FoodEaten, got %v", evs)
			}
			expected := w.cfg.Food.Value * tc.multiplier
			if w.Score != expected {
				t.Errorf("Score = %d, expected %d", w.Score, expected)
			}
			if len(w.Food) != 1 {
				t.Fatalf("len(Food) = %d, expected the slot to be refilled", len(w.Food))
			}
			if w.Food[0].Pos == placed {
				t.Error("respawned food should be at a new position")
			}
			if p.Body.PendingGrowth != w.cfg.Food.Growth {
				t.Errorf("PendingGrowth = %d, expected %d", p.Body.PendingGrowth, w.cfg.Food.Growth)
			}
		})
	}
}

func TestFoodJustOutOfReachStays(t *testing.T) {
	w := newTestWorld()
	p := w.Player
	next := DiscreteStep(p.Head(), p.Velocity, p.Speed, testDT.Seconds())
	placed := next.Add(core.V(p.Thickness+w.cfg.Food.Radius, 0))
	w.Food[0].Pos = placed

	evs := w.Step(Input{}, testDT)
	if core.HasKind(evs, core.EventFoodEaten) || w.Food[0].Pos != placed {
		t.Error("food at exactly thickness+radius should not be eaten")
	}
}

func TestKillEnemyDropsFoodAndBonus(t *testing.T) {
	w := newTestWorld()
	e := addEnemy(w, core.V(200, 800), 0, 40)
	before := len(w.Food)

	evs := w.killEnemy(e, nil)

	if got := len(w.Food) - before; got != 20 {
		t.Errorf("spawned %d food, expected 20", got)
	}
	if w.Score != w.cfg.Enemies.KillBonus {
		t.Errorf("Score = %d, expected %d", w.Score, w.cfg.Enemies.KillBonus)
	}
	if !e.Dead {
		t.Error("enemy should be marked dead")
	}
	if core.CountKind(evs, core.EventEnemyKilled) != 1 {
		t.Errorf("expected one EnemyKilled, got %v", evs)
	}
	for i := 0; i < 20; i++ {
		if w.Food[before+i].Pos != e.Body.Segments[i*2] {
			t.Errorf("food %d at %v, expected segment %d %v", i, w.Food[before+i].Pos, i*2, e.Body.Segments[i*2])
		}
	}
	killed := evs[0]
	if len(killed.Positions) != 20 {
		t.Fatalf("len(Positions) = %d, expected 20", len(killed.Positions))
	}
	for i, pos := range killed.Positions {
		if pos != w.Food[before+i].Pos {
			t.Errorf("Positions[%d] = %v, expected %v", i, pos, w.Food[before+i].Pos)
		}
	}
}

// Two enemies whose heads each sit inside the other's body. Resolution
// runs in slice order and dead enemies no longer collide, so only the
// first one dies.
func TestEnemyCollisionResolvesInSliceOrder(t *testing.T) {
	tests := []struct {
		name     string
		reversed bool
	}{
		{"a first", false},
		{"b first", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld()
			a := addEnemy(w, core.V(200, 800), 0, 40)
			b := addEnemy(w, core.V(180, 800), math.Pi, 40)
			if tt.reversed {
				w.Enemies[0], w.Enemies[1] = b, a
			}
			first, second := w.Enemies[0], w.Enemies[1]

			evs := w.resolveEnemies(nil)

			if len(w.Enemies) != 1 || w.Enemies[0] != second {
				t.Fatalf("survivors = %v, expected only enemy %d", w.Enemies, second.ID)
			}
			if !first.Dead {
				t.Errorf("enemy %d should be dead", first.ID)
			}
			if core.CountKind(evs, core.EventEnemyKilled) != 1 {
				t.Fatalf("expected one EnemyKilled, got %v", evs)
			}
			for _, ev := range evs {
				if ev.Kind == core.EventEnemyKilled && ev.ID != first.ID {
					t.Errorf("EnemyKilled.ID = %d, expected %d", ev.ID, first.ID)
				}
			}
			if w.Score != w.cfg.Enemies.KillBonus {
				t.Errorf("Score = %d, expected %d", w.Score, w.cfg.Enemies.KillBonus)
			}
			if w.Stopped() {
				t.Error("player should survive")
			}
		})
	}
}

func TestEnemyEatsFoodInPlace(t *testing.T) {
	w := newTestWorld()
	e := addEnemy(w, core.V(200, 800), 0, 40)
	w.Food[0].Pos = e.Head()
	count := len(w.Food)

	evs := w.resolveEnemies(nil)

	if len(w.Food) != count {
		t.Errorf("len(Food) = %d, expected %d", len(w.Food), count)
	}
	if w.Food[0].Pos == e.Head() {
		t.Error("eaten food should be respawned elsewhere")
	}
	if e.Body.PendingGrowth != w.cfg.Food.Growth {
		t.Errorf("PendingGrowth = %d, expected %d", e.Body.PendingGrowth, w.cfg.Food.Growth)
	}
	if w.Score != 0 {
		t.Errorf("Score = %d, expected 0", w.Score)
	}
	if core.HasKind(evs, core.EventFoodEaten) {
		t.Error("enemy meals should not emit FoodEaten")
	}
}

func TestEnemyRunningIntoPlayerDies(t *testing.T) {
	w := newTestWorld()
	// After one step the old segment 14 sits at index 15.
	e := addEnemy(w, w.Player.Body.Segments[14], 0, 40)
	before := len(w.Food)

	evs := w.Step(Input{}, testDT)

	if len(w.Enemies) != 0 {
		t.Fatalf("enemy should have been removed, %d left", len(w.Enemies))
	}
	if got := len(w.Food) - before; got != 20 {
		t.Errorf("spawned %d food, expected 20", got)
	}
	if w.Score != w.cfg.Enemies.KillBonus {
		t.Errorf("Score = %d, expected %d", w.Score, w.cfg.Enemies.KillBonus)
	}
	if w.Stopped() {
		t.Error("player should survive")
	}
	found := false
	for _, ev := range evs {
		if ev.Kind == core.EventEnemyKilled && ev.ID == e.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected EnemyKilled for id %d in %v", e.ID, evs)
	}
}

func TestPlayerRunningIntoEnemyStops(t *testing.T) {
	w := newTestWorld()
	next := DiscreteStep(w.Player.Head(), w.Player.Velocity, w.Player.Speed, testDT.Seconds())
	// Enemy body lies across the player's next head position.
	addEnemy(w, next.Add(core.V(40, 0)), 0, 40)

	evs := w.Step(Input{}, testDT)
	if core.CountKind(evs, core.EventStopped) != 1 {
		t.Fatalf("expected exactly one Stopped event, got %v", evs)
	}
	if !w.Stopped() {
		t.Fatal("world should be stopped")
	}
	for _, ev := range evs {
		if ev.Kind == core.EventStopped && ev.Name != "enemy" {
			t.Errorf("stop reason = %q, expected enemy", ev.Name)
		}
	}

	head := w.Player.Head()
	if evs := w.Step(Input{Dirs: []Direction{DirLeft}}, testDT); len(evs) != 0 {
		t.Errorf("Step after stop returned %v", evs)
	}
	if w.Player.Head() != head {
		t.Error("Step after stop moved the player")
	}
}

func TestGhostPassesThroughEnemy(t *testing.T) {
	w := newTestWorld()
	w.Player.Ghost = true
	next := DiscreteStep(w.Player.Head(), w.Player.Velocity, w.Player.Speed, testDT.Seconds())
	addEnemy(w, next.Add(core.V(40, 0)), 0, 40)

	w.Step(Input{}, testDT)
	if w.Stopped() {
		t.Error("ghost player should not die on an enemy body")
	}
}

func TestSelfCollisionStops(t *testing.T) {
	w := newTestWorld()
	// Up, then right and straight back down: the head folds onto the neck.
	var evs []core.Event
	for _, d := range []Direction{DirRight, DirDown, DirLeft} {
		evs = append(evs, w.Step(Input{Dirs: []Direction{d}}, testDT)...)
	}

	if !w.Stopped() {
		t.Fatal("expected self collision")
	}
	if core.CountKind(evs, core.EventStopped) != 1 {
		t.Fatalf("expected exactly one Stopped event, got %v", evs)
	}
	for _, ev := range evs {
		if ev.Kind == core.EventStopped && ev.Name != "self" {
			t.Errorf("stop reason = %q, expected self", ev.Name)
		}
	}
}

func TestGhostSurvivesSelfCollision(t *testing.T) {
	w := newTestWorld()
	w.Player.Ghost = true
	for _, d := range []Direction{DirRight, DirDown, DirLeft} {
		w.Step(Input{Dirs: []Direction{d}}, testDT)
	}
	if w.Stopped() {
		t.Error("ghost player should not die on its own body")
	}
}

func TestThemeAdvancesWithScore(t *testing.T) {
	w := newTestWorld()
	w.Score = 95
	p := w.Player
	w.Food[0].Pos = DiscreteStep(p.Head(), p.Velocity, p.Speed, testDT.Seconds())

	evs := w.Step(Input{}, testDT)
	if !core.HasKind(evs, core.EventThemeChanged) {
		t.Fatalf("expected ThemeChanged, got %v", evs)
	}
	if w.Theme().Name != "Cyber Red" {
		t.Errorf("Theme() = %q, expected Cyber Red", w.Theme().Name)
	}
}

func TestSpawnEnemyKeepsDistanceAndRollsArchetype(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	cfg.Enemies.Max = 100
	w := NewWorld(cfg, Options{Seed: 9})

	seen := map[string]bool{}
	for range 40 {
		e := w.SpawnEnemy()
		if d := core.Dist(e.Head(), w.Player.Head()); d < cfg.Enemies.SpawnMinDistance {
			t.Fatalf("enemy spawned %v from the player, minimum %v", d, cfg.Enemies.SpawnMinDistance)
		}
		var arch config.ArchetypeSpec
		for _, a := range cfg.Enemies.Archetypes {
			if a.Name == e.Archetype {
				arch = a
			}
		}
		if arch.Name == "" {
			t.Fatalf("unknown archetype %q", e.Archetype)
		}
		seen[arch.Name] = true
		if e.Body.Len() != arch.Length {
			t.Errorf("%s length = %d, expected %d", arch.Name, e.Body.Len(), arch.Length)
		}
		if math.Abs(e.Speed-cfg.Enemies.BaseSpeed*arch.SpeedScale) > 1e-9 {
			t.Errorf("%s speed = %v", arch.Name, e.Speed)
		}
		if math.Abs(e.Thickness-cfg.Enemies.BaseThickness*arch.ThicknessScale) > 1e-9 {
			t.Errorf("%s thickness = %v", arch.Name, e.Thickness)
		}
	}
	if len(seen) < 2 {
		t.Errorf("only saw archetypes %v in 40 rolls", seen)
	}
}

func TestSpawnTimer(t *testing.T) {
	cfg := testConfig()
	cfg.World.Width, cfg.World.Height = 4000, 4000
	cfg.Enemies.Max = 1
	w := NewWorld(cfg, Options{Seed: 2})
	w.Food[0].Pos = core.V(100, 100)

	spawned := 0
	for range 30 {
		evs := w.Step(Input{}, testDT)
		spawned += core.CountKind(evs, core.EventEnemySpawned)
	}
	// The first spawn lands once 2s has been exceeded.
	if spawned != 1 || len(w.Enemies) != 1 {
		t.Fatalf("spawned %d enemies (%d alive), expected 1", spawned, len(w.Enemies))
	}

	w.spawnTimer = 10 * time.Second
	if evs := w.Step(Input{}, testDT); core.HasKind(evs, core.EventEnemySpawned) {
		t.Error("spawned past the enemy cap")
	}
}
