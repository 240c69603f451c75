package config

import "math"

// Progress is what a session has achieved so far.
type Progress struct {
	Score int
	Ticks int
	Level int // 1-based
}

// DifficultyManager calculates dynamic game parameters based on score/time/level.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
func (d *DifficultyManager) Level(p Progress) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(p.Score) / maxAt
	case "time":
		progress = float64(p.Ticks) / maxAt
	case "level":
		progress = float64(p.Level-1) / maxAt
	default:
		return d.initialLevel
	}

	// Clamp progress to [0, 1]
	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// SpeedFactor returns the multiplier applied to base speeds:
// 1 + level*speed_multiplier, capped at max_factor when set.
func (d *DifficultyManager) SpeedFactor(p Progress) float64 {
	f := 1.0 + d.Level(p)*d.cfg.Scaling.SpeedMultiplier
	if ceiling := d.cfg.Scaling.MaxFactor; ceiling > 0 && f > ceiling {
		f = ceiling
	}
	return f
}

// Speed returns baseSpeed scaled by the current speed factor.
func (d *DifficultyManager) Speed(baseSpeed float64, p Progress) float64 {
	return baseSpeed * d.SpeedFactor(p)
}

// Interval returns a spawn interval in ticks shrunk by difficulty, never
// below min_interval (or 1).
func (d *DifficultyManager) Interval(base int, p Progress) int {
	reduction := int(d.Level(p) * float64(d.cfg.Scaling.IntervalReduction))
	return max(base-reduction, d.cfg.Scaling.MinInterval, 1)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
