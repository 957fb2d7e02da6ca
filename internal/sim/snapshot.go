package sim

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

// SnapshotVersion is bumped whenever Snapshot changes incompatibly.
const SnapshotVersion = 1

// Snapshot captures a world for save/load. The player is stored flat.
type Snapshot struct {
	Version int `msgpack:"v"`

	Segments     []core.Vec2 `msgpack:"segments"`
	VX           float64     `msgpack:"vx"`
	VY           float64     `msgpack:"vy"`
	TargetLength int         `msgpack:"length"`
	Pending      int         `msgpack:"pending"`
	Speed        float64     `msgpack:"speed"`
	BaseSpeed    float64     `msgpack:"base_speed"`
	Ghost        bool        `msgpack:"ghost"`
	SnakeType    string      `msgpack:"type"`
	Score        int         `msgpack:"score"`
	ThemeIndex   int         `msgpack:"theme"`

	Multiplier   int     `msgpack:"multiplier"`
	MagnetRadius float64 `msgpack:"magnet"`

	Enemies  []EnemySnapshot `msgpack:"enemies"`
	Food     []Food          `msgpack:"food"`
	PowerUps []PowerUp       `msgpack:"powerups"`
	Effects  []Effect        `msgpack:"effects"`

	Clock      time.Duration `msgpack:"clock"`
	SpawnTimer time.Duration `msgpack:"spawn_timer"`
	NextID     int           `msgpack:"next_id"`
	Stopped    bool          `msgpack:"stopped"`
}

// EnemySnapshot is one enemy in a Snapshot.
type EnemySnapshot struct {
	ID           int         `msgpack:"id"`
	Segments     []core.Vec2 `msgpack:"segments"`
	TargetLength int         `msgpack:"length"`
	Pending      int         `msgpack:"pending"`
	Heading      float64     `msgpack:"heading"`
	Speed        float64     `msgpack:"speed"`
	TurnRate     float64     `msgpack:"turn_rate"`
	Thickness    float64     `msgpack:"thickness"`
	Color        core.Color  `msgpack:"color"`
	Archetype    string      `msgpack:"archetype"`
	WanderAngle  float64     `msgpack:"wander"`
	WanderTimer  int         `msgpack:"wander_timer"`
}

// Snapshot captures the current world state.
func (w *World) Snapshot() Snapshot {
	p := w.Player
	s := Snapshot{
		Version:      SnapshotVersion,
		Segments:     append([]core.Vec2(nil), p.Body.Segments...),
		VX:           p.Velocity.X,
		VY:           p.Velocity.Y,
		TargetLength: p.Body.TargetLength,
		Pending:      p.Body.PendingGrowth,
		Speed:        p.Speed,
		BaseSpeed:    p.BaseSpeed,
		Ghost:        p.Ghost,
		SnakeType:    w.SnakeType,
		Score:        w.Score,
		ThemeIndex:   w.themes.Index(),
		Multiplier:   w.Boosts.ScoreMultiplier,
		MagnetRadius: w.Boosts.MagnetRadius,
		Food:         append([]Food(nil), w.Food...),
		PowerUps:     append([]PowerUp(nil), w.PowerUps...),
		Effects:      append([]Effect(nil), w.Effects...),
		Clock:        w.clock,
		SpawnTimer:   w.spawnTimer,
		NextID:       w.nextID,
		Stopped:      w.stopped,
	}
	for _, e := range w.Enemies {
		s.Enemies = append(s.Enemies, EnemySnapshot{
			ID:           e.ID,
			Segments:     append([]core.Vec2(nil), e.Body.Segments...),
			TargetLength: e.Body.TargetLength,
			Pending:      e.Body.PendingGrowth,
			Heading:      e.Heading,
			Speed:        e.Speed,
			TurnRate:     e.TurnRate,
			Thickness:    e.Thickness,
			Color:        e.Color,
			Archetype:    e.Archetype,
			WanderAngle:  e.AI.WanderAngle,
			WanderTimer:  e.AI.WanderTimer,
		})
	}
	return s
}

// Restore rebuilds a world from a snapshot. The world counts as started.
func Restore(cfg config.ArenaConfig, s Snapshot, opts Options) (*World, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("sim: snapshot version %d, expected %d", s.Version, SnapshotVersion)
	}
	if len(s.Segments) == 0 {
		return nil, fmt.Errorf("sim: snapshot has no player segments")
	}
	opts.SnakeType = s.SnakeType
	opts.ThemeIndex = s.ThemeIndex
	w := NewWorld(cfg, opts)

	p := w.Player
	p.Body = Body{Segments: s.Segments, TargetLength: s.TargetLength, PendingGrowth: s.Pending}
	p.Velocity = core.V(s.VX, s.VY)
	p.Speed = s.Speed
	p.BaseSpeed = s.BaseSpeed
	p.Ghost = s.Ghost

	w.Score = s.Score
	w.Boosts = Boosts{ScoreMultiplier: max(s.Multiplier, 1), MagnetRadius: s.MagnetRadius}
	w.Food = s.Food
	w.PowerUps = s.PowerUps
	w.Effects = s.Effects
	w.clock = s.Clock
	w.spawnTimer = s.SpawnTimer
	w.nextID = max(s.NextID, 1)
	w.stopped = s.Stopped
	w.started = true

	w.Enemies = w.Enemies[:0]
	for _, es := range s.Enemies {
		e := &Creature{
			ID:        es.ID,
			Kind:      KindEnemy,
			Body:      Body{Segments: es.Segments, TargetLength: es.TargetLength, PendingGrowth: es.Pending},
			Heading:   es.Heading,
			Speed:     es.Speed,
			BaseSpeed: es.Speed,
			TurnRate:  es.TurnRate,
			Thickness: es.Thickness,
			Color:     es.Color,
			Archetype: es.Archetype,
			AI:        AIState{TargetFood: -1, WanderAngle: es.WanderAngle, WanderTimer: es.WanderTimer},
		}
		e.Velocity = core.FromAngle(e.Heading, e.Speed)
		w.Enemies = append(w.Enemies, e)
	}
	return w, nil
}

// Encode serialises a snapshot with msgpack.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("sim: encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a msgpack snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("sim: decode snapshot: %w", err)
	}
	return s, nil
}
