// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

// KeyBindings maps action names (see core.ParseAction) to key identifiers.
type KeyBindings map[string][]string

// SnakeConfig contains all configuration for the Snake game.
type SnakeConfig struct {
	Grid     SnakeGrid     `yaml:"grid"`
	Gameplay SnakeGameplay `yaml:"gameplay"`
	Food     SnakeFood     `yaml:"food"`
	Keys     KeyBindings   `yaml:"keys"`
}

// SnakeGrid defines the playfield grid for Snake.
type SnakeGrid struct {
	Cols     int `yaml:"cols"`
	Rows     int `yaml:"rows"`
	CellSize int `yaml:"cell_size"` // logical pixels per cell
}

// SnakeGameplay defines pacing and start position for Snake.
type SnakeGameplay struct {
	TickMillis int `yaml:"tick_ms"`
	StartX     int `yaml:"start_x"`
	StartY     int `yaml:"start_y"`
}

// SnakeFood defines food placement and value.
type SnakeFood struct {
	Points    int  `yaml:"points"`
	StartX    int  `yaml:"start_x"`
	StartY    int  `yaml:"start_y"`
	AvoidBody bool `yaml:"avoid_body"` // re-roll food that lands on the snake
}

// RunnerConfig contains all configuration for the side-scrolling runner.
type RunnerConfig struct {
	Playfield  Playfield        `yaml:"playfield"`
	Physics    RunnerPhysics    `yaml:"physics"`
	Player     RunnerPlayer     `yaml:"player"`
	Spawn      RunnerSpawn      `yaml:"spawn"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Keys       KeyBindings      `yaml:"keys"`
}

// Playfield is the logical size of a continuous playfield.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// RunnerPhysics defines physics parameters for the runner.
type RunnerPhysics struct {
	TickMillis       int     `yaml:"tick_ms"`
	Gravity          float64 `yaml:"gravity"`
	JumpImpulse      float64 `yaml:"jump_impulse"`
	MaxFallSpeed     float64 `yaml:"max_fall_speed"`
	BaseSpeed        float64 `yaml:"base_speed"`
	MaxSpeed         float64 `yaml:"max_speed"`
	LandingTolerance float64 `yaml:"landing_tolerance"`
	JumpCooldownMS   int     `yaml:"jump_cooldown_ms"`
}

// RunnerPlayer defines player parameters for the runner.
type RunnerPlayer struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Jumps  int     `yaml:"jumps"`
}

// RunnerSpawn defines obstacle and platform generation for the runner.
type RunnerSpawn struct {
	Every               int       `yaml:"every"` // ticks between spawn evaluations
	SingleSpikeChance   float64   `yaml:"single_spike_chance"`
	DoubleSpikeChance   float64   `yaml:"double_spike_chance"`
	SpikeWidth          float64   `yaml:"spike_width"`
	DoubleSpikeWidth    float64   `yaml:"double_spike_width"`
	SpikeHeight         float64   `yaml:"spike_height"`
	SpikeSink           float64   `yaml:"spike_sink"` // how far spikes sit below a surface top
	GroundY             float64   `yaml:"ground_y"`
	PlatformWidth       float64   `yaml:"platform_width"`
	PlatformHeight      float64   `yaml:"platform_height"`
	PlatformTiers       []float64 `yaml:"platform_tiers"`
	PlatformSpikeChance float64   `yaml:"platform_spike_chance"`
	PlatformSpikeOffset float64   `yaml:"platform_spike_offset"`
	Initial             []Block   `yaml:"initial"` // platforms present at start
}

// Block is an axis-aligned box in playfield pixels.
type Block struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ShooterConfig contains all configuration for the vertical shooter.
type ShooterConfig struct {
	Playfield  Playfield        `yaml:"playfield"`
	Gameplay   ShooterGameplay  `yaml:"gameplay"`
	Player     ShooterPlayer    `yaml:"player"`
	Shots      ShooterShots     `yaml:"shots"`
	Enemies    ShooterEnemies   `yaml:"enemies"`
	Effects    ShooterEffects   `yaml:"effects"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Keys       KeyBindings      `yaml:"keys"`
}

// ShooterPlayer defines the player ship.
type ShooterPlayer struct {
	X                  float64 `yaml:"x"`
	Y                  float64 `yaml:"y"`
	Width              float64 `yaml:"width"`
	Height             float64 `yaml:"height"`
	Speed              float64 `yaml:"speed"`
	Lives              int     `yaml:"lives"`
	InvulnerableFrames int     `yaml:"invulnerable_frames"`
}

// ShooterGameplay defines pacing and level progression.
type ShooterGameplay struct {
	FrameRate      int `yaml:"frame_rate"`
	PointsPerLevel int `yaml:"points_per_level"`
}

// ShooterShots defines player and enemy projectiles.
type ShooterShots struct {
	CooldownMS      int     `yaml:"cooldown_ms"`
	MaxPlayerShots  int     `yaml:"max_player_shots"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Speed           float64 `yaml:"speed"`
	EnemyShotSpeed  float64 `yaml:"enemy_shot_speed"`
	EnemyFireEvery  int     `yaml:"enemy_fire_every"`
	EnemyFireReduce float64 `yaml:"enemy_fire_reduce"`
	EnemyFireFloor  int     `yaml:"enemy_fire_floor"`
	EnemyFireChance float64 `yaml:"enemy_fire_chance"`
}

// ShooterEnemies defines enemy waves and types.
type ShooterEnemies struct {
	Width       float64     `yaml:"width"`
	Height      float64     `yaml:"height"`
	Max         int         `yaml:"max"`
	SpawnEvery  int         `yaml:"spawn_every"`
	SpawnReduce float64     `yaml:"spawn_reduce"`
	SpawnFloor  int         `yaml:"spawn_floor"`
	WaveWeights []float64   `yaml:"wave_weights"` // chance of a wave of 1, 2, 3... enemies
	Types       []EnemyType `yaml:"types"`
}

// EnemyType is one enemy variant.
type EnemyType struct {
	Name   string  `yaml:"name"`
	Speed  float64 `yaml:"speed"`
	Points int     `yaml:"points"`
	Color  string  `yaml:"color"`
}

// ShooterEffects defines cosmetic parameters.
type ShooterEffects struct {
	Stars              int     `yaml:"stars"`
	ExplosionParticles int     `yaml:"explosion_particles"`
	ExplosionLife      int     `yaml:"explosion_life"`
	ExplosionSpeed     float64 `yaml:"explosion_speed"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a session.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", "level", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks/levels at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Multiplier added to speed at max difficulty
	MaxFactor         float64 `yaml:"max_factor"`         // Ceiling on the speed factor, 0 = none
	IntervalReduction int     `yaml:"interval_reduction"` // Spawn interval reduction at max difficulty
	MinInterval       int     `yaml:"min_interval"`       // Floor on spawn intervals
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a preset name to a preset, defaulting to normal.
func ParsePreset(name string) DifficultyPreset {
	switch DifficultyPreset(name) {
	case DifficultyEasy, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(name)
	default:
		return DifficultyNormal
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.0
	case DifficultyHard:
		return 0.4
	default:
		return 0.0
	}
}
