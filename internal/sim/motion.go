// Package sim is the real-time simulation and collision engine.
//
// It owns every creature, food item and power-up in the arena and advances
// them with World.Step. The package never renders, plays audio or touches
// the network; callers react to the []core.Event each step returns.
package sim

import (
	"math"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Direction is a discrete 4-way steering intent.
type Direction int8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Unit returns the unit vector for the direction (screen coordinates, +Y down).
func (d Direction) Unit() core.Vec2 {
	switch d {
	case DirUp:
		return core.V(0, -1)
	case DirDown:
		return core.V(0, 1)
	case DirLeft:
		return core.V(-1, 0)
	case DirRight:
		return core.V(1, 0)
	default:
		return core.Vec2{}
	}
}

// Horizontal reports whether the direction is along the X axis.
func (d Direction) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// Vertical reports whether the direction is along the Y axis.
func (d Direction) Vertical() bool {
	return d == DirUp || d == DirDown
}

// Input is what the host collected since the previous step.
type Input struct {
	Dirs []Direction // queued 4-way intents, oldest first
	Turn int         // -1 left, +1 right, 0 straight
}

// consumeDirection pops at most one queued intent and applies it when it is
// perpendicular to the current axis of travel. Reversals and repeats are
// consumed without effect.
func (c *Creature) consumeDirection() {
	if len(c.queue) == 0 {
		return
	}
	next := c.queue[0]
	c.queue = c.queue[1:]

	u := next.Unit()
	switch {
	case c.Velocity.Y != 0 && next.Horizontal():
		c.Velocity = core.V(u.X*c.Speed, 0)
	case c.Velocity.X != 0 && next.Vertical():
		c.Velocity = core.V(0, u.Y*c.Speed)
	}
}

// DiscreteStep returns the next head position for axis-locked motion.
// Only the sign of each velocity component matters; the magnitude is speed.
func DiscreteStep(pos, vel core.Vec2, speed, dt float64) core.Vec2 {
	d := speed * dt
	return core.V(pos.X+core.Sign(vel.X)*d, pos.Y+core.Sign(vel.Y)*d)
}

// SteerToward turns heading toward target by at most maxTurn radians.
// The difference is normalised first so the turn always takes the short way.
func SteerToward(heading, target, maxTurn float64) float64 {
	diff := core.NormalizeAngle(target - heading)
	return core.NormalizeAngle(heading + core.ClampF(diff, -maxTurn, maxTurn))
}

// TurnStep applies held turn input for the classic variant and returns the
// new heading and head position.
func TurnStep(pos core.Vec2, heading float64, turn int, turnRate, speed, dt float64) (float64, core.Vec2) {
	heading += float64(turn) * turnRate * dt
	return heading, pos.Add(core.FromAngle(heading, speed*dt))
}

// StepsToConverge is the number of SteerToward calls needed to close the
// gap between heading and target at maxTurn per call.
func StepsToConverge(heading, target, maxTurn float64) int {
	diff := math.Abs(core.NormalizeAngle(target - heading))
	if diff == 0 {
		return 0
	}
	return int(math.Ceil(diff / maxTurn))
}

// Wrap re-enters a point that left the field on the opposite edge.
func Wrap(p core.Vec2, w, h float64) core.Vec2 {
	if p.X < 0 {
		p.X = w
	} else if p.X > w {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = h
	} else if p.Y > h {
		p.Y = 0
	}
	return p
}
