package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

func TestPointCircle(t *testing.T) {
	tests := []struct {
		name     string
		b        core.Vec2
		expected bool
	}{
		{"overlapping", core.V(10, 0), true},
		{"just inside", core.V(27.999, 0), true},
		{"touching is not a hit", core.V(28, 0), false},
		{"diagonal outside", core.V(20, 20), false},
		{"diagonal inside", core.V(19, 19), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PointCircle(core.V(0, 0), 20, tc.b, 8); got != tc.expected {
				t.Errorf("PointCircle(%v) = %v, expected %v", tc.b, got, tc.expected)
			}
		})
	}
}

// The pre-checks only prune; results must match a plain distance scan.
func TestPointHitsBodyMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := range 200 {
		n := 1 + rng.Intn(60)
		body := Body{TargetLength: n}
		for range n {
			body.Segments = append(body.Segments, core.V(rng.Float64()*400, rng.Float64()*400))
		}
		radius := 1 + rng.Float64()*40
		skip := rng.Intn(5)
		stride := 1 + rng.Intn(3)

		for range 50 {
			p := core.V(rng.Float64()*480-40, rng.Float64()*480-40)
			expected := false
			for i := skip; i < n; i += stride {
				if math.Hypot(p.X-body.Segments[i].X, p.Y-body.Segments[i].Y) < radius {
					expected = true
					break
				}
			}
			if got := PointHitsBody(p, &body, radius, skip, stride); got != expected {
				t.Fatalf("trial %d: PointHitsBody(%v) = %v, expected %v", trial, p, got, expected)
			}
		}
	}
}

func TestSelfHitSafeZone(t *testing.T) {
	const (
		n        = 30
		safeZone = 10
		radius   = 20.0 - 2 // thickness - self collision margin
	)
	var body Body
	for i := range n {
		body.Segments = append(body.Segments, core.V(float64(i)*50, 0))
	}
	body.TargetLength = n

	offset := core.V(0, radius-0.5)
	past := body.Segments[safeZone+1].Add(offset)
	inside := body.Segments[safeZone-1].Add(offset)

	if !SelfHit(past, &body, safeZone, radius) {
		t.Errorf("point near segment %d should collide", safeZone+1)
	}
	if SelfHit(inside, &body, safeZone, radius) {
		t.Errorf("point near segment %d is inside the safe zone and should not collide", safeZone-1)
	}
}

func TestHeadHitsBodyDirectional(t *testing.T) {
	w := newTestWorld()
	// Enemy head touches the player's body a few segments back.
	target := w.Player.Body.Segments[12]
	e := addEnemy(w, target.Add(core.V(5, 0)), 0, 20)

	if !HeadHitsBody(e, w.Player) {
		t.Error("enemy head should hit the player body")
	}
	if HeadHitsBody(w.Player, e) {
		t.Error("player head is far from the enemy body and should not hit it")
	}
	if HeadHitsBody(e, e) {
		t.Error("a creature never hits itself through HeadHitsBody")
	}

	e.Dead = true
	if HeadHitsBody(e, w.Player) {
		t.Error("dead creatures never collide")
	}
}

func TestGhostExemptOnlyAsVictim(t *testing.T) {
	w := newTestWorld()
	p := w.Player
	e := addEnemy(w, p.Head().Add(core.V(40, 0)), 0, 30)
	// Put the player's head on the enemy body.
	p.Body.SetHead(e.Body.Segments[5])

	if !Fatal(p, e) {
		t.Fatal("player head on enemy body should be fatal")
	}
	p.Ghost = true
	if Fatal(p, e) {
		t.Error("ghost player should not die running into a body")
	}

	// Ghost still counts as an obstacle for others.
	e2 := addEnemy(w, p.Body.Segments[15], math.Pi, 10)
	if !Fatal(e2, p) {
		t.Error("enemy running into a ghost body should still die")
	}
}
