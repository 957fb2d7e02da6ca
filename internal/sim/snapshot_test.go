package sim

import (
	"testing"
	"time"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

func TestSnapshotRestore(t *testing.T) {
	w := newTestWorld()
	addEnemy(w, core.V(200, 800), 0.5, 12)
	w.Step(Input{Dirs: []Direction{DirRight}}, testDT)
	w.Score = 230
	w.PowerUps = []PowerUp{{Pos: core.V(50, 60), Radius: 15, Type: "magnet", CreatedAt: time.Second}}
	eff, err := Collect(w.cfg.PowerUps, w.Player, &w.Boosts, PowerUp{Type: "speed"}, w.Clock())
	if err != nil {
		t.Fatal(err)
	}
	w.Effects = append(w.Effects, eff)

	data, err := w.Snapshot().Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	r, err := Restore(testConfig(), snap, Options{Seed: 1})
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if r.Score != 230 || r.Clock() != w.Clock() {
		t.Errorf("score/clock = %d/%v, expected 230/%v", r.Score, r.Clock(), w.Clock())
	}
	if r.Player.Speed != w.Player.Speed || r.Player.BaseSpeed != w.Player.BaseSpeed {
		t.Errorf("speed = %v/%v, expected %v/%v", r.Player.Speed, r.Player.BaseSpeed, w.Player.Speed, w.Player.BaseSpeed)
	}
	if r.Player.Body.Len() != w.Player.Body.Len() || r.Player.Head() != w.Player.Head() {
		t.Error("player body not restored")
	}
	if len(r.Enemies) != 1 || r.Enemies[0].Body.Len() != 12 {
		t.Fatalf("enemies not restored: %d", len(r.Enemies))
	}
	if len(r.Food) != len(w.Food) || len(r.PowerUps) != 1 || len(r.Effects) != 1 {
		t.Errorf("food/powerups/effects = %d/%d/%d", len(r.Food), len(r.PowerUps), len(r.Effects))
	}
	if r.Effects[0].Config.SpeedMultiplier != 1.5 {
		t.Errorf("effect config lost: %+v", r.Effects[0].Config)
	}
	if evs := r.Start(); len(evs) != 0 {
		t.Error("a restored world counts as started")
	}

	// Both copies move the player identically from here.
	w.Step(Input{Dirs: []Direction{DirUp}}, testDT)
	r.Step(Input{Dirs: []Direction{DirUp}}, testDT)
	if r.Player.Head() != w.Player.Head() {
		t.Errorf("restored head %v diverged from %v", r.Player.Head(), w.Player.Head())
	}
}

func TestRestoreRejectsBadSnapshot(t *testing.T) {
	if _, err := Restore(testConfig(), Snapshot{Version: 99}, Options{}); err == nil {
		t.Error("expected version error")
	}
	if _, err := Restore(testConfig(), Snapshot{Version: SnapshotVersion}, Options{}); err == nil {
		t.Error("expected error for an empty player")
	}
	if _, err := DecodeSnapshot([]byte{0xc1}); err == nil {
		t.Error("expected decode error")
	}
}
