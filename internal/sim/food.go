package sim

import (
	"math/rand"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Food is a consumable item.
type Food struct {
	Pos    core.Vec2
	Radius float64
}

// Placer picks uniform spawn points inside a field, keeping Clearance away
// from the sampled segments of living bodies when it can.
type Placer struct {
	Width, Height float64
	Margin        float64 // distance kept from every edge
	Clearance     float64
	Stride        int // body sampling stride
	Attempts      int
}

// Place returns a spawn point. ok is false when every attempt landed near a
// body; the last candidate is returned anyway so spawning never fails.
func (p Placer) Place(rng *rand.Rand, bodies []*Body) (pos core.Vec2, ok bool) {
	attempts := max(p.Attempts, 1)
	for range attempts {
		pos = p.uniform(rng)
		if p.clear(pos, bodies) {
			return pos, true
		}
	}
	return pos, false
}

func (p Placer) uniform(rng *rand.Rand) core.Vec2 {
	w := max(p.Width-2*p.Margin, 0)
	h := max(p.Height-2*p.Margin, 0)
	return core.V(rng.Float64()*w+p.Margin, rng.Float64()*h+p.Margin)
}

func (p Placer) clear(pos core.Vec2, bodies []*Body) bool {
	if p.Clearance <= 0 {
		return true
	}
	for _, b := range bodies {
		if PointHitsBody(pos, b, p.Clearance, 0, p.Stride) {
			return false
		}
	}
	return true
}
