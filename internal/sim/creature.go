package sim

import (
	"math"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Kind distinguishes the player from AI creatures.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

func (k Kind) String() string {
	if k == KindPlayer {
		return "player"
	}
	return "enemy"
}

// Creature is any snake-like entity with a head and an ordered body.
type Creature struct {
	ID        int
	Kind      Kind
	Body      Body
	Velocity  core.Vec2
	Heading   float64 // radians, continuous steering only
	Speed     float64
	BaseSpeed float64
	TurnRate  float64 // radians per second
	Thickness float64
	Ghost     bool
	Color     core.Color
	Archetype string
	AI        AIState
	Dead      bool

	queue []Direction
}

// Head returns the creature's head position.
func (c *Creature) Head() core.Vec2 {
	return c.Body.Head()
}

// Length is the target length other creatures compare against.
func (c *Creature) Length() int {
	return c.Body.TargetLength
}

// Facing returns the direction of travel in radians.
func (c *Creature) Facing() float64 {
	if c.Kind == KindPlayer {
		return c.Velocity.Angle()
	}
	return c.Heading
}

// Queue appends direction intents to the creature's input queue.
func (c *Creature) Queue(dirs ...Direction) {
	for _, d := range dirs {
		if d != DirNone {
			c.queue = append(c.queue, d)
		}
	}
}

// Pending returns the number of queued direction intents.
func (c *Creature) Pending() int {
	return len(c.queue)
}

// setSpeed changes speed and keeps axis-locked velocity in step with it.
func (c *Creature) setSpeed(s float64) {
	c.Speed = s
	if c.Kind == KindPlayer {
		c.Velocity = core.V(core.Sign(c.Velocity.X)*s, core.Sign(c.Velocity.Y)*s)
	} else {
		c.Velocity = core.FromAngle(c.Heading, s)
	}
}

// newPlayer builds the arena player facing up at pos.
func newPlayer(pos core.Vec2, length int, spacing, speed, thickness float64, color core.Color) *Creature {
	c := &Creature{
		Kind:      KindPlayer,
		Velocity:  core.V(0, -speed),
		Heading:   -math.Pi / 2,
		Speed:     speed,
		BaseSpeed: speed,
		Thickness: thickness,
		Color:     color,
	}
	c.Body.Reset(pos, c.Heading, length, spacing)
	return c
}
