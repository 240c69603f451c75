package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

//go:embed defaults/shooter.yaml
var defaultShooterYAML []byte

// DefaultSnakeConfig returns the default Snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: SnakeGrid{
			Cols:     20,
			Rows:     20,
			CellSize: 20,
		},
		Gameplay: SnakeGameplay{
			TickMillis: 100,
			StartX:     10,
			StartY:     10,
		},
		Food: SnakeFood{
			Points: 10,
			StartX: 15,
			StartY: 15,
		},
		Keys: KeyBindings{
			"up":    {"up", "w"},
			"down":  {"down", "s"},
			"left":  {"left", "a"},
			"right": {"right", "d"},
		},
	}
}

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Playfield: Playfield{Width: 600, Height: 400},
		Physics: RunnerPhysics{
			TickMillis:       20,
			Gravity:          0.8,
			JumpImpulse:      -12,
			BaseSpeed:        5,
			MaxSpeed:         12,
			LandingTolerance: 10,
			JumpCooldownMS:   80,
		},
		Player: RunnerPlayer{
			X:      50,
			Y:      270, // standing on the ground
			Width:  30,
			Height: 30,
			Jumps:  2,
		},
		Spawn: RunnerSpawn{
			Every:               80,
			SingleSpikeChance:   0.15,
			DoubleSpikeChance:   0.07,
			SpikeWidth:          20,
			DoubleSpikeWidth:    45,
			SpikeHeight:         20,
			SpikeSink:           10,
			GroundY:             300,
			PlatformWidth:       140,
			PlatformHeight:      20,
			PlatformTiers:       []float64{240, 200, 160},
			PlatformSpikeChance: 0.2,
			PlatformSpikeOffset: 40,
			Initial: []Block{
				{X: 0, Y: 300, Width: 800, Height: 20},
				{X: 250, Y: 240, Width: 200, Height: 20},
				{X: 550, Y: 200, Width: 180, Height: 20},
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 7000, // +0.001 px/tick from 5 to 12
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.4,
				MaxFactor:       2.4,
				MinInterval:     40,
			},
		},
		Keys: KeyBindings{
			"jump": {"space", "w", "up"},
		},
	}
}

// DefaultShooterConfig returns the default shooter configuration.
func DefaultShooterConfig() ShooterConfig {
	return ShooterConfig{
		Playfield: Playfield{Width: 600, Height: 600},
		Gameplay: ShooterGameplay{
			FrameRate:      60,
			PointsPerLevel: 500,
		},
		Player: ShooterPlayer{
			X:                  280,
			Y:                  550,
			Width:              40,
			Height:             30,
			Speed:              6,
			Lives:              3,
			InvulnerableFrames: 120,
		},
		Shots: ShooterShots{
			CooldownMS:      300,
			MaxPlayerShots:  5,
			Width:           6,
			Height:          15,
			Speed:           8,
			EnemyShotSpeed:  4,
			EnemyFireEvery:  90,
			EnemyFireReduce: 4,
			EnemyFireFloor:  40,
			EnemyFireChance: 0.2,
		},
		Enemies: ShooterEnemies{
			Width:       35,
			Height:      25,
			Max:         12,
			SpawnEvery:  180,
			SpawnReduce: 8,
			SpawnFloor:  60,
			WaveWeights: []float64{0.5, 0.3, 0.2},
			Types: []EnemyType{
				{Name: "fast", Speed: 1.2, Points: 30, Color: "red"},
				{Name: "medium", Speed: 0.9, Points: 20, Color: "orange"},
				{Name: "slow", Speed: 0.6, Points: 10, Color: "yellow"},
			},
		},
		Effects: ShooterEffects{
			Stars:              100,
			ExplosionParticles: 15,
			ExplosionLife:      30,
			ExplosionSpeed:     3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 20,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 3.0, // 1 + (level-1) * 0.15
				MaxFactor:       4.0,
				MinInterval:     60,
			},
		},
		Keys: KeyBindings{
			"left":  {"left", "a"},
			"right": {"right", "d"},
			"fire":  {"space", "f"},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "snake":
		return defaultSnakeYAML
	case "runner":
		return defaultRunnerYAML
	case "shooter":
		return defaultShooterYAML
	default:
		return nil
	}
}
