package core

import "fmt"

// EventKind identifies something that happened during a simulation step.
type EventKind int

const (
	EventStarted EventKind = iota
	EventScoreChanged
	EventStopped
	EventFoodEaten
	EventEnemyKilled
	EventEnemySpawned
	EventPowerUpSpawned
	EventPowerUpCollected
	EventPowerUpExpired
	EventEffectExpired
	EventThemeChanged
)

var eventNames = [...]string{
	EventStarted:          "started",
	EventScoreChanged:     "score_changed",
	EventStopped:          "stopped",
	EventFoodEaten:        "food_eaten",
	EventEnemyKilled:      "enemy_killed",
	EventEnemySpawned:     "enemy_spawned",
	EventPowerUpSpawned:   "powerup_spawned",
	EventPowerUpCollected: "powerup_collected",
	EventPowerUpExpired:   "powerup_expired",
	EventEffectExpired:    "effect_expired",
	EventThemeChanged:     "theme_changed",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// Event is a discrete outcome of a step. Presentation layers (renderer,
// taunts, web feed) react to events and never reach into the simulation.
//
// Only the fields relevant to Kind are set.
type Event struct {
	Kind  EventKind `msgpack:"kind"`
	Score int       `msgpack:"score,omitempty"`
	Delta int       `msgpack:"delta,omitempty"`
	Pos   Vec2      `msgpack:"pos,omitempty"`
	Name  string    `msgpack:"name,omitempty"` // power-up type, theme name, stop reason
	Color Color     `msgpack:"color,omitempty"`
	ID    int       `msgpack:"id,omitempty"` // enemy id

	// Positions lists the food dropped by a killed enemy.
	Positions []Vec2 `msgpack:"positions,omitempty"`
}

// HasKind reports whether any event in evs has the given kind.
func HasKind(evs []Event, k EventKind) bool {
	for _, e := range evs {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// CountKind returns how many events in evs have the given kind.
func CountKind(evs []Event, k EventKind) int {
	n := 0
	for _, e := range evs {
		if e.Kind == k {
			n++
		}
	}
	return n
}
