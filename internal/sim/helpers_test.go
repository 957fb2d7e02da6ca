package sim

import (
	"time"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

const testDT = 100 * time.Millisecond

// testConfig is a small, quiet arena: no enemy spawning, no random
// power-ups, one food item and a slow player.
func testConfig() config.ArenaConfig {
	cfg := config.DefaultArenaConfig()
	cfg.World.Width = 1000
	cfg.World.Height = 1000
	cfg.Player.SpeedPreset = ""
	cfg.Player.Speed = 100
	cfg.Food.Count = 1
	cfg.Enemies.Max = 0
	cfg.PowerUps.SpawnChance = 0
	return cfg
}

func newTestWorld() *World {
	w := NewWorld(testConfig(), Options{Seed: 42})
	// Park the only food item well away from the player's column.
	w.Food[0].Pos = core.V(100, 100)
	return w
}

// addEnemy places a stationary enemy with n segments whose head is at pos
// and whose body trails away opposite to heading.
func addEnemy(w *World, pos core.Vec2, heading float64, n int) *Creature {
	e := &Creature{
		ID:        w.nextID,
		Kind:      KindEnemy,
		Heading:   heading,
		TurnRate:  9,
		Thickness: 20,
		AI:        AIState{TargetFood: -1},
	}
	w.nextID++
	e.Body.Reset(pos, heading, n, 2)
	w.Enemies = append(w.Enemies, e)
	return e
}
