package config

import (
	_ "embed"
	"math"
	"time"
)

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// DefaultArenaConfig returns the hardcoded configuration. It mirrors
// defaults/arena.yaml and is the last fallback when nothing else parses.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		World: WorldConfig{Width: 4000, Height: 4000, GridSize: 50},
		Player: PlayerConfig{
			Speed:               250,
			SpeedPreset:         string(SpeedInsane),
			Thickness:           20,
			InitialLength:       30,
			SegmentSpacing:      2,
			SafeZone:            10,
			SelfCollisionMargin: 2,
			SnakeType:           "classic",
			Color:               "bright_green",
		},
		Food: FoodConfig{
			Count:           300,
			Radius:          8,
			Value:           10,
			Growth:          1,
			EdgeMargin:      20,
			SpawnAttempts:   50,
			Clearance:       50,
			ClearanceStride: 10,
			MagnetPull:      300,
		},
		Enemies: EnemyConfig{
			Max:              10,
			SpawnInterval:    2 * time.Second,
			SpawnMinDistance: 500,
			SpawnAttempts:    32,
			BaseSpeed:        250,
			BaseThickness:    20,
			SegmentSpacing:   2,
			TurnRate:         9,
			KillBonus:        500,
			KillFoodStride:   2,
			Colors:           []string{"red", "magenta", "yellow", "cyan", "orange", "green"},
			Archetypes: []ArchetypeSpec{
				{Name: "small", RollMin: 0, RollMax: 0.3, Length: 15, ThicknessScale: 0.8, SpeedScale: 1.1},
				{Name: "normal", RollMin: 0.3, RollMax: 0.8, Length: 40, ThicknessScale: 1, SpeedScale: 0.9},
				{Name: "boss", RollMin: 0.8, RollMax: 1, Length: 100, ThicknessScale: 1.5, SpeedScale: 0.7},
			},
		},
		AI: AIConfig{
			FoodScanRadius:    1000,
			ThreatScanRadius:  400,
			ThreatLengthRatio: 1.2,
			FleeRadius:        200,
			WanderInterval:    50,
			WanderJitter:      1,
			LookAhead:         100,
			AvoidRange:        500,
			AvoidStride:       2,
			AvoidMargin:       20,
			AvoidKick:         math.Pi / 2,
		},
		PowerUps: PowerUpConfig{
			SpawnChance:    0.2,
			Lifetime:       15 * time.Second,
			EffectDuration: 8 * time.Second,
			Radius:         15,
			SpawnMargin:    50,
			Types: []PowerUpType{
				{Name: "speed", Kind: KindSpeed, Icon: "ϟ", Color: "yellow", Description: "Speed Boost", SpeedMultiplier: 1.5},
				{Name: "slow", Kind: KindSpeed, Icon: "≈", Color: "cyan", Description: "Slow Motion", SpeedMultiplier: 0.5},
				{Name: "ghost", Kind: KindGhost, Icon: "○", Color: "white", Description: "Ghost Mode"},
				{Name: "magnet", Kind: KindMagnet, Icon: "∪", Color: "magenta", Description: "Food Magnet", MagnetRadius: 150},
				{Name: "multiplier", Kind: KindMultiplier, Icon: "×", Color: "orange", Description: "Score x2", ScoreMultiplier: 2},
			},
		},
		Themes: []Theme{
			{Name: "Neon Night", Score: 0, Primary: "bright_green", Secondary: "bright_cyan"},
			{Name: "Cyber Red", Score: 100, Primary: "bright_red", Secondary: "bright_yellow"},
			{Name: "Deep Ocean", Score: 200, Primary: "bright_blue", Secondary: "bright_magenta"},
			{Name: "Solar Flare", Score: 300, Primary: "orange", Secondary: "bright_white"},
			{Name: "Cotton Candy", Score: 400, Primary: "magenta", Secondary: "cyan"},
			{Name: "Matrix", Score: 500, Primary: "green", Secondary: "gray"},
			{Name: "High Contrast", Score: 600, Primary: "white", Secondary: "red"},
		},
		Taunts: TauntConfig{
			Enabled:   true,
			EatChance: 0.1,
			PoolSize:  5,
			Model:     "gemini-2.5-flash",
			Timeout:   10 * time.Second,
			Prompt:    "You are a sarcastic commentator watching a snake game. Roast the player in one or two short, punchy sentences.",
		},
		Classic: ClassicConfig{
			Speed:          150,
			TurnRate:       4,
			Thickness:      12,
			InitialLength:  20,
			SegmentSpacing: 2,
			Growth:         10,
			SafeZone:       20,
			FoodRadius:     8,
			FoodValue:      10,
			FoodClearance:  20,
			ClearanceStep:  5,
			CellSize:       10,
		},
		Host: HostConfig{MaxFrameDelta: 100 * time.Millisecond},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultArenaYAML
}
