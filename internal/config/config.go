// Package config provides YAML-based configuration for the arena and
// classic variants. Every balance constant the simulation uses lives here.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ArenaConfig is the full tuning table, consumed once at world construction.
type ArenaConfig struct {
	World    WorldConfig   `yaml:"world"`
	Player   PlayerConfig  `yaml:"player"`
	Food     FoodConfig    `yaml:"food"`
	Enemies  EnemyConfig   `yaml:"enemies"`
	AI       AIConfig      `yaml:"ai"`
	PowerUps PowerUpConfig `yaml:"powerups"`
	Themes   []Theme       `yaml:"themes"`
	Taunts   TauntConfig   `yaml:"taunts"`
	Classic  ClassicConfig `yaml:"classic"`
	Host     HostConfig    `yaml:"host"`
}

// WorldConfig defines the wrapping play field.
type WorldConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	GridSize float64 `yaml:"grid_size"`
}

// PlayerConfig defines the arena player creature.
type PlayerConfig struct {
	Speed               float64 `yaml:"speed"`
	SpeedPreset         string  `yaml:"speed_preset"` // overrides Speed when set
	Thickness           float64 `yaml:"thickness"`
	InitialLength       int     `yaml:"initial_length"`
	SegmentSpacing      float64 `yaml:"segment_spacing"`
	SafeZone            int     `yaml:"safe_zone"`             // leading segments skipped by self-collision
	SelfCollisionMargin float64 `yaml:"self_collision_margin"` // subtracted from thickness
	SnakeType           string  `yaml:"snake_type"`
	Color               string  `yaml:"color"`
}

// FoodConfig defines food items.
type FoodConfig struct {
	Count           int     `yaml:"count"`
	Radius          float64 `yaml:"radius"`
	Value           int     `yaml:"value"`
	Growth          int     `yaml:"growth"`
	EdgeMargin      float64 `yaml:"edge_margin"`
	SpawnAttempts   int     `yaml:"spawn_attempts"`
	Clearance       float64 `yaml:"clearance"`
	ClearanceStride int     `yaml:"clearance_stride"`
	MagnetPull      float64 `yaml:"magnet_pull"` // units per second
}

// EnemyConfig defines enemy spawning and the kill rule.
type EnemyConfig struct {
	Max              int             `yaml:"max"`
	SpawnInterval    time.Duration   `yaml:"spawn_interval"`
	SpawnMinDistance float64         `yaml:"spawn_min_distance"`
	SpawnAttempts    int             `yaml:"spawn_attempts"`
	BaseSpeed        float64         `yaml:"base_speed"`
	BaseThickness    float64         `yaml:"base_thickness"`
	SegmentSpacing   float64         `yaml:"segment_spacing"`
	TurnRate         float64         `yaml:"turn_rate"` // radians per second
	KillBonus        int             `yaml:"kill_bonus"`
	KillFoodStride   int             `yaml:"kill_food_stride"`
	Colors           []string        `yaml:"colors"`
	Archetypes       []ArchetypeSpec `yaml:"archetypes"`
}

// ArchetypeSpec is one enemy size class. An archetype is chosen when the
// spawn roll falls in [RollMin, RollMax).
type ArchetypeSpec struct {
	Name           string  `yaml:"name"`
	RollMin        float64 `yaml:"roll_min"`
	RollMax        float64 `yaml:"roll_max"`
	Length         int     `yaml:"length"`
	ThicknessScale float64 `yaml:"thickness_scale"`
	SpeedScale     float64 `yaml:"speed_scale"`
}

// AIConfig holds the enemy decision radii and timers.
type AIConfig struct {
	FoodScanRadius    float64 `yaml:"food_scan_radius"`
	ThreatScanRadius  float64 `yaml:"threat_scan_radius"`
	ThreatLengthRatio float64 `yaml:"threat_length_ratio"`
	FleeRadius        float64 `yaml:"flee_radius"`
	WanderInterval    int     `yaml:"wander_interval"` // frames
	WanderJitter      float64 `yaml:"wander_jitter"`   // radians
	LookAhead         float64 `yaml:"look_ahead"`
	AvoidRange        float64 `yaml:"avoid_range"`
	AvoidStride       int     `yaml:"avoid_stride"`
	AvoidMargin       float64 `yaml:"avoid_margin"`
	AvoidKick         float64 `yaml:"avoid_kick"`
}

// PowerUpConfig defines the power-up lifecycle.
type PowerUpConfig struct {
	SpawnChance    float64       `yaml:"spawn_chance"`
	Lifetime       time.Duration `yaml:"lifetime"`
	EffectDuration time.Duration `yaml:"effect_duration"`
	Radius         float64       `yaml:"radius"`
	SpawnMargin    float64       `yaml:"spawn_margin"`
	Types          []PowerUpType `yaml:"types"`
}

// PowerUp kinds. Every type maps onto exactly one kind.
const (
	KindSpeed      = "speed"
	KindGhost      = "ghost"
	KindMagnet     = "magnet"
	KindMultiplier = "multiplier"
)

// PowerUpType is one entry of the power-up table.
type PowerUpType struct {
	Name            string  `yaml:"name"`
	Kind            string  `yaml:"kind"`
	Icon            string  `yaml:"icon"`
	Color           string  `yaml:"color"`
	Description     string  `yaml:"description"`
	SpeedMultiplier float64 `yaml:"speed_multiplier,omitempty"`
	MagnetRadius    float64 `yaml:"magnet_radius,omitempty"`
	ScoreMultiplier int     `yaml:"score_multiplier,omitempty"`
}

// Theme is a score-gated color scheme.
type Theme struct {
	Name      string `yaml:"name"`
	Score     int    `yaml:"score"`
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// TauntConfig configures the commentator.
type TauntConfig struct {
	Enabled   bool          `yaml:"enabled"`
	EatChance float64       `yaml:"eat_chance"`
	PoolSize  int           `yaml:"pool_size"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	Prompt    string        `yaml:"prompt"`
}

// ClassicConfig is the prototype variant: turn steering, one food item,
// self-collision only. The world is sized from the terminal.
type ClassicConfig struct {
	Speed          float64 `yaml:"speed"`
	TurnRate       float64 `yaml:"turn_rate"`
	Thickness      float64 `yaml:"thickness"`
	InitialLength  int     `yaml:"initial_length"`
	SegmentSpacing float64 `yaml:"segment_spacing"`
	Growth         int     `yaml:"growth"`
	SafeZone       int     `yaml:"safe_zone"`
	FoodRadius     float64 `yaml:"food_radius"`
	FoodValue      int     `yaml:"food_value"`
	FoodClearance  float64 `yaml:"food_clearance"`
	ClearanceStep  int     `yaml:"clearance_step"`
	CellSize       float64 `yaml:"cell_size"` // world units per terminal column
}

// HostConfig holds frame-loop policy for the terminal host.
type HostConfig struct {
	MaxFrameDelta time.Duration `yaml:"max_frame_delta"`
}

// Validate rejects configurations the simulation cannot run with.
func (c ArenaConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.World.Width > 0 && c.World.Height > 0, "world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	check(c.Player.Speed > 0 || c.Player.SpeedPreset != "", "player speed must be positive")
	check(c.Player.Thickness > 0, "player thickness must be positive")
	check(c.Player.InitialLength >= 1, "player initial_length must be at least 1")
	check(c.Player.SafeZone >= 0, "player safe_zone must not be negative")
	check(c.Food.Count >= 1, "food count must be at least 1")
	check(c.Food.Radius > 0, "food radius must be positive")
	check(c.Enemies.Max >= 0, "enemies max must not be negative")
	check(c.Enemies.KillFoodStride >= 1, "enemies kill_food_stride must be at least 1")
	check(c.Enemies.TurnRate > 0, "enemies turn_rate must be positive")
	check(c.AI.AvoidStride >= 1, "ai avoid_stride must be at least 1")
	check(c.AI.WanderInterval >= 1, "ai wander_interval must be at least 1")
	check(c.PowerUps.SpawnChance >= 0 && c.PowerUps.SpawnChance <= 1, "powerups spawn_chance must be in [0,1]")
	check(c.PowerUps.Lifetime > 0, "powerups lifetime must be positive")
	check(c.PowerUps.EffectDuration > 0, "powerups effect_duration must be positive")
	check(c.Classic.Speed > 0 && c.Classic.TurnRate > 0, "classic speed and turn_rate must be positive")
	check(c.Classic.InitialLength >= 1, "classic initial_length must be at least 1")

	if c.Player.SpeedPreset != "" {
		_, err := SpeedForPreset(SpeedPreset(c.Player.SpeedPreset))
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, t := range c.PowerUps.Types {
		switch t.Kind {
		case KindSpeed:
			check(t.SpeedMultiplier > 0, "powerup %q: speed_multiplier must be positive", t.Name)
		case KindMagnet:
			check(t.MagnetRadius > 0, "powerup %q: magnet_radius must be positive", t.Name)
		case KindMultiplier:
			check(t.ScoreMultiplier >= 1, "powerup %q: score_multiplier must be at least 1", t.Name)
		case KindGhost:
		default:
			errs = append(errs, fmt.Errorf("powerup %q: unknown kind %q", t.Name, t.Kind))
		}
	}
	for i := 1; i < len(c.Themes); i++ {
		check(c.Themes[i].Score >= c.Themes[i-1].Score, "themes must be ordered by score (%q)", c.Themes[i].Name)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// PlayerSpeed returns the effective arena player speed.
func (c ArenaConfig) PlayerSpeed() float64 {
	if c.Player.SpeedPreset != "" {
		if v, err := SpeedForPreset(SpeedPreset(c.Player.SpeedPreset)); err == nil {
			return v
		}
	}
	return c.Player.Speed
}

// PowerUpType looks up a power-up type by name.
func (c ArenaConfig) PowerUpType(name string) (PowerUpType, bool) {
	for _, t := range c.PowerUps.Types {
		if t.Name == name {
			return t, true
		}
	}
	return PowerUpType{}, false
}
