package sim

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Mode is the enemy behaviour chosen for the current step.
type Mode int

const (
	ModeHunting Mode = iota
	ModeFleeing
	ModeWandering
)

func (m Mode) String() string {
	switch m {
	case ModeHunting:
		return "hunting"
	case ModeFleeing:
		return "fleeing"
	default:
		return "wandering"
	}
}

// AIState is the per-enemy decision state. Mode and the targets are
// recomputed every step; only the wander fields carry across steps.
type AIState struct {
	Mode        Mode
	TargetFood  int // index into the food slice, -1 when none
	TargetAngle float64
	WanderAngle float64
	WanderTimer int
}

// View is the read-only world a decision is made against.
// Decide never modifies Food or Creatures.
type View struct {
	Food      []Food
	Creatures []*Creature
}

// Decision is the outcome of Decide.
type Decision struct {
	Mode        Mode
	TargetAngle float64
	Food        int // nearest food index, -1 if none in range
	Threat      int // id of the nearest threat, -1 if none
	Avoiding    bool
}

// Decide picks the enemy's behaviour for this step. Apart from drawing from
// rng and advancing the wander fields of self.AI it has no side effects.
func Decide(v View, self *Creature, cfg config.AIConfig, rng *rand.Rand) Decision {
	head := self.Head()
	d := Decision{Food: -1, Threat: -1}

	foodDist := math.Inf(1)
	for i, f := range v.Food {
		dist := core.Dist(f.Pos, head)
		if dist < foodDist && dist < cfg.FoodScanRadius {
			foodDist = dist
			d.Food = i
		}
	}

	var threat *Creature
	threatDist := math.Inf(1)
	own := float64(self.Length())
	for _, other := range v.Creatures {
		if other == self || other.Dead || other.Body.Len() == 0 {
			continue
		}
		dist := core.Dist(other.Head(), head)
		if dist >= cfg.ThreatScanRadius {
			continue
		}
		if float64(other.Length()) > own*cfg.ThreatLengthRatio && dist < threatDist {
			threatDist = dist
			threat = other
		}
	}

	switch {
	case threat != nil && threatDist < cfg.FleeRadius:
		d.Mode = ModeFleeing
		d.Threat = threat.ID
		d.TargetAngle = head.Sub(threat.Head()).Angle()
	case d.Food >= 0:
		d.Mode = ModeHunting
		d.TargetAngle = v.Food[d.Food].Pos.Sub(head).Angle()
	default:
		d.Mode = ModeWandering
		self.AI.WanderTimer++
		if self.AI.WanderTimer >= cfg.WanderInterval {
			self.AI.WanderAngle += (rng.Float64() - 0.5) * 2 * cfg.WanderJitter
			self.AI.WanderTimer = 0
		}
		d.TargetAngle = self.AI.WanderAngle
	}

	if obstacleAhead(v, self, cfg) {
		d.Avoiding = true
		d.TargetAngle += cfg.AvoidKick
	}
	return d
}

// obstacleAhead probes one point LookAhead units along the current heading
// against the sampled bodies of nearby creatures.
func obstacleAhead(v View, self *Creature, cfg config.AIConfig) bool {
	head := self.Head()
	probe := head.Add(core.FromAngle(self.Facing(), cfg.LookAhead))
	for _, other := range v.Creatures {
		if other == self || other.Dead || other.Body.Len() == 0 {
			continue
		}
		if core.Dist(other.Head(), head) > cfg.AvoidRange {
			continue
		}
		r := self.Thickness + other.Thickness + cfg.AvoidMargin
		if PointHitsBody(probe, &other.Body, r, 0, cfg.AvoidStride) {
			return true
		}
	}
	return false
}
