package sim

import (
	"math"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

// PointCircle reports whether two circles overlap (dist < ra+rb).
func PointCircle(a core.Vec2, ra float64, b core.Vec2, rb float64) bool {
	r := ra + rb
	dx, dy := math.Abs(a.X-b.X), math.Abs(a.Y-b.Y)
	if dx >= r || dy >= r {
		return false
	}
	return math.Hypot(dx, dy) < r
}

// PointHitsBody reports whether p lies within radius of any segment of body,
// starting at index skip and sampling every stride segments.
func PointHitsBody(p core.Vec2, body *Body, radius float64, skip, stride int) bool {
	if body == nil || len(body.Segments) == 0 || radius <= 0 {
		return false
	}
	stride = max(stride, 1)
	skip = max(skip, 0)
	if !body.Bounds().Expand(radius).Contains(p) {
		return false
	}
	for i := skip; i < len(body.Segments); i += stride {
		s := body.Segments[i]
		if math.Abs(p.X-s.X) >= radius || math.Abs(p.Y-s.Y) >= radius {
			continue
		}
		if core.Dist(p, s) < radius {
			return true
		}
	}
	return false
}

// HeadHitsBody reports whether a's head touches b's body, using b's
// thickness as the radius. The test is directional: it says a ran into b,
// not the other way around. A creature never hits itself here and dead
// creatures never collide.
func HeadHitsBody(a, b *Creature) bool {
	if a == nil || b == nil || a == b || a.Dead || b.Dead || a.Body.Len() == 0 {
		return false
	}
	return PointHitsBody(a.Head(), &b.Body, b.Thickness, 0, 1)
}

// Fatal reports whether a dies by running into b. A ghost is exempt as
// the victim; it can still be run into.
func Fatal(a, b *Creature) bool {
	return !a.Ghost && HeadHitsBody(a, b)
}

// SelfHit reports whether head lies within radius of the body past the
// safeZone leading segments.
func SelfHit(head core.Vec2, body *Body, safeZone int, radius float64) bool {
	return PointHitsBody(head, body, radius, safeZone, 1)
}
