package sim

import "github.com/vovakirdan/serpent-arena/internal/core"

// Body is an ordered list of sampled head positions, head first.
//
// Segments are trail samples, not fixed-size links: one is added per step,
// so their spacing is speed*dt.
type Body struct {
	Segments      []core.Vec2
	TargetLength  int
	PendingGrowth int

	bounds   core.Bounds
	boundsOK bool
}

// Reset lays out n segments behind pos, opposite to heading, spacing apart.
func (b *Body) Reset(pos core.Vec2, heading float64, n int, spacing float64) {
	n = max(n, 1)
	b.Segments = make([]core.Vec2, n)
	step := core.FromAngle(heading, spacing)
	for i := range b.Segments {
		b.Segments[i] = pos.Sub(step.Scale(float64(i)))
	}
	b.TargetLength = n
	b.PendingGrowth = 0
	b.boundsOK = false
}

// Advance inserts p as the new head and trims the tail to the target length.
func (b *Body) Advance(p core.Vec2) {
	b.Segments = append(b.Segments, core.Vec2{})
	copy(b.Segments[1:], b.Segments)
	b.Segments[0] = p

	if b.PendingGrowth > 0 {
		b.TargetLength++
		b.PendingGrowth--
	}
	keep := max(b.TargetLength, 1)
	if len(b.Segments) > keep {
		b.Segments = b.Segments[:keep]
	}
	b.boundsOK = false
}

// Grow queues n segments of growth, applied one per Advance.
func (b *Body) Grow(n int) {
	if n > 0 {
		b.PendingGrowth += n
	}
}

// Head returns the first segment. An empty body reports the zero point.
func (b *Body) Head() core.Vec2 {
	if len(b.Segments) == 0 {
		return core.Vec2{}
	}
	return b.Segments[0]
}

// SetHead moves the head in place (used by wrapping).
func (b *Body) SetHead(p core.Vec2) {
	if len(b.Segments) == 0 {
		return
	}
	if b.Segments[0] != p {
		b.Segments[0] = p
		b.boundsOK = false
	}
}

// Len returns the current segment count.
func (b *Body) Len() int {
	return len(b.Segments)
}

// Bounds returns the axis-aligned box around every segment. It is cached
// until the body next changes through its methods; code that edits
// Segments directly must call Invalidate.
func (b *Body) Bounds() core.Bounds {
	if b.boundsOK {
		return b.bounds
	}
	if len(b.Segments) == 0 {
		b.bounds = core.Bounds{}
		b.boundsOK = true
		return b.bounds
	}
	bb := core.Bounds{Min: b.Segments[0], Max: b.Segments[0]}
	for _, s := range b.Segments[1:] {
		bb.Min.X = min(bb.Min.X, s.X)
		bb.Min.Y = min(bb.Min.Y, s.Y)
		bb.Max.X = max(bb.Max.X, s.X)
		bb.Max.Y = max(bb.Max.Y, s.Y)
	}
	b.bounds = bb
	b.boundsOK = true
	return bb
}

// Invalidate drops the cached bounds.
func (b *Body) Invalidate() {
	b.boundsOK = false
}
