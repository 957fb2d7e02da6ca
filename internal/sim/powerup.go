package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

// ErrUnknownPowerUp is returned when a collected power-up names a type
// missing from the configuration.
var ErrUnknownPowerUp = errors.New("sim: unknown power-up type")

// PowerUp is a transient collectible in the world.
type PowerUp struct {
	Pos       core.Vec2
	Radius    float64
	Type      string
	CreatedAt time.Duration // simulation clock
}

// Expired reports whether the power-up outlived lifetime at time now.
func (p PowerUp) Expired(now, lifetime time.Duration) bool {
	return now-p.CreatedAt > lifetime
}

// Effect is a timed stat change from a collected power-up. Config is the
// type as it was at collection time; reversal uses it, not the live table.
type Effect struct {
	Type      string
	StartedAt time.Duration
	Duration  time.Duration
	Config    config.PowerUpType
}

// Remaining returns how long the effect has left at time now.
func (e Effect) Remaining(now time.Duration) time.Duration {
	return max(e.Duration-(now-e.StartedAt), 0)
}

// Boosts is the player state power-ups modify besides the creature itself.
type Boosts struct {
	ScoreMultiplier int
	MagnetRadius    float64
}

// applyEffect performs the immediate mutation for a newly collected effect.
func applyEffect(c *Creature, b *Boosts, eff Effect) {
	switch eff.Config.Kind {
	case config.KindSpeed:
		c.setSpeed(c.Speed * eff.Config.SpeedMultiplier)
	case config.KindGhost:
		c.Ghost = true
	case config.KindMultiplier:
		b.ScoreMultiplier = eff.Config.ScoreMultiplier
	case config.KindMagnet:
		b.MagnetRadius = eff.Config.MagnetRadius
	}
}

// reverseEffect undoes eff. remaining holds the effects still active after
// eff was removed; overlapping effects of the same kind keep their value.
func reverseEffect(c *Creature, b *Boosts, eff Effect, remaining []Effect) {
	last, stillActive := lastOfKind(remaining, eff.Config.Kind)
	switch eff.Config.Kind {
	case config.KindSpeed:
		if !stillActive {
			c.setSpeed(c.BaseSpeed)
		} else {
			c.setSpeed(c.Speed / eff.Config.SpeedMultiplier)
		}
	case config.KindGhost:
		c.Ghost = stillActive
	case config.KindMultiplier:
		if stillActive {
			b.ScoreMultiplier = last.Config.ScoreMultiplier
		} else {
			b.ScoreMultiplier = 1
		}
	case config.KindMagnet:
		if stillActive {
			b.MagnetRadius = last.Config.MagnetRadius
		} else {
			b.MagnetRadius = 0
		}
	}
}

func lastOfKind(effects []Effect, kind string) (Effect, bool) {
	for i := len(effects) - 1; i >= 0; i-- {
		if effects[i].Config.Kind == kind {
			return effects[i], true
		}
	}
	return Effect{}, false
}

// Collect turns a power-up into an active effect on c. Unknown types are
// rejected with ErrUnknownPowerUp and leave c untouched.
func Collect(cfg config.PowerUpConfig, c *Creature, b *Boosts, p PowerUp, now time.Duration) (Effect, error) {
	var pt config.PowerUpType
	found := false
	for _, t := range cfg.Types {
		if t.Name == p.Type {
			pt, found = t, true
			break
		}
	}
	if !found {
		return Effect{}, fmt.Errorf("%w: %q", ErrUnknownPowerUp, p.Type)
	}
	eff := Effect{Type: pt.Name, StartedAt: now, Duration: cfg.EffectDuration, Config: pt}
	applyEffect(c, b, eff)
	return eff, nil
}

// ExpireEffects removes and reverses every effect whose duration elapsed by
// now, oldest first, and returns the survivors and the expired ones.
func ExpireEffects(c *Creature, b *Boosts, effects []Effect, now time.Duration) (active, expired []Effect) {
	active = effects
	for i := 0; i < len(active); {
		eff := active[i]
		if now-eff.StartedAt < eff.Duration {
			i++
			continue
		}
		active = append(active[:i:i], active[i+1:]...)
		reverseEffect(c, b, eff, active)
		expired = append(expired, eff)
	}
	return active, expired
}
