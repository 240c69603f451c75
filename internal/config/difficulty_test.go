package config

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDifficultyLevelProgressions(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		maxAt    int
		progress Progress
		expected float64
	}{
		{"score start", "score", 100, Progress{Score: 0}, 0},
		{"score half", "score", 100, Progress{Score: 50}, 0.5},
		{"score beyond max clamps", "score", 100, Progress{Score: 500}, 1},
		{"time half", "time", 7000, Progress{Ticks: 3500}, 0.5},
		{"level one is zero", "level", 20, Progress{Level: 1}, 0},
		{"level eleven", "level", 20, Progress{Level: 11}, 0.5},
		{"level beyond max clamps", "level", 20, Progress{Level: 99}, 1},
		{"none stays initial", "none", 10, Progress{Score: 10}, 0},
		{"unknown stays initial", "moon", 10, Progress{Score: 10}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDifficultyManager(DifficultyConfig{
				Enabled:     true,
				Progression: ProgressionConfig{Type: tc.typ, MaxAt: tc.maxAt},
			})
			if got := d.Level(tc.progress); !approx(got, tc.expected) {
				t.Errorf("Level() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestDifficultyInitialLevelInterpolates(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.4,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
	})

	if got := d.Level(Progress{}); !approx(got, 0.4) {
		t.Errorf("Level() at start = %v, expected 0.4", got)
	}
	if got := d.Level(Progress{Score: 50}); !approx(got, 0.7) {
		t.Errorf("Level() halfway = %v, expected 0.7", got)
	}
}

func TestDifficultyDisabledUsesInitialLevel(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.3,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
	})
	if got := d.Level(Progress{Score: 1000}); !approx(got, 0.3) {
		t.Errorf("Level() = %v, expected 0.3", got)
	}
	if d.IsEnabled() {
		t.Error("IsEnabled() should be false")
	}
}

func TestRunnerSpeedReachesCeiling(t *testing.T) {
	cfg := DefaultRunnerConfig()
	d := NewDifficultyManager(cfg.Difficulty)

	if got := d.Speed(cfg.Physics.BaseSpeed, Progress{}); !approx(got, 5) {
		t.Errorf("Speed() at start = %v, expected 5", got)
	}
	if got := d.Speed(cfg.Physics.BaseSpeed, Progress{Ticks: 1000}); !approx(got, 6) {
		t.Errorf("Speed() after 1000 ticks = %v, expected 6", got)
	}
	if got := d.Speed(cfg.Physics.BaseSpeed, Progress{Ticks: 100000}); !approx(got, 12) {
		t.Errorf("Speed() long after = %v, expected 12", got)
	}
}

func TestShooterSpeedFactorMatchesLevelFormula(t *testing.T) {
	d := NewDifficultyManager(DefaultShooterConfig().Difficulty)

	for level := 1; level <= 10; level++ {
		want := 1 + float64(level-1)*0.15
		if got := d.SpeedFactor(Progress{Level: level}); !approx(got, want) {
			t.Errorf("SpeedFactor(level %d) = %v, expected %v", level, got, want)
		}
	}
	if got := d.SpeedFactor(Progress{Level: 500}); !approx(got, 4) {
		t.Errorf("SpeedFactor() beyond max = %v, expected ceiling 4", got)
	}
}

func TestDifficultyIntervalFloor(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{IntervalReduction: 60, MinInterval: 30},
	})

	tests := []struct {
		score    int
		expected int
	}{
		{0, 80},
		{50, 50},
		{100, 30},
		{1000, 30},
	}
	for _, tc := range tests {
		if got := d.Interval(80, Progress{Score: tc.score}); got != tc.expected {
			t.Errorf("Interval(80, score %d) = %d, expected %d", tc.score, got, tc.expected)
		}
	}
}

func TestDifficultyIntervalNeverBelowOne(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 1},
		Scaling:     ScalingConfig{IntervalReduction: 500},
	})
	if got := d.Interval(10, Progress{Score: 1}); got != 1 {
		t.Errorf("Interval() = %d, expected 1", got)
	}
}
