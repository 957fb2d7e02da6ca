package config

import (
	"fmt"
	"slices"
)

// SpeedPreset is a named player speed.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
	SpeedInsane SpeedPreset = "insane"
)

// SpeedPresets lists presets from slowest to fastest.
var SpeedPresets = []SpeedPreset{SpeedSlow, SpeedNormal, SpeedFast, SpeedInsane}

// SpeedForPreset returns the player speed in units per second for a preset.
func SpeedForPreset(p SpeedPreset) (float64, error) {
	switch p {
	case SpeedSlow:
		return 120, nil
	case SpeedNormal:
		return 180, nil
	case SpeedFast:
		return 240, nil
	case SpeedInsane:
		return 320, nil
	default:
		return 0, fmt.Errorf("config: unknown speed preset %q", p)
	}
}

// SnakeTypes are the cosmetic body styles a player can pick.
var SnakeTypes = []string{"classic", "neon", "cobra"}

// IsSnakeType reports whether name is a known body style.
func IsSnakeType(name string) bool {
	return slices.Contains(SnakeTypes, name)
}
