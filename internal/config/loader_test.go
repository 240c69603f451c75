package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	snake, err := LoadSnake("")
	if err != nil {
		t.Fatalf("LoadSnake() error: %v", err)
	}
	if !reflect.DeepEqual(snake, DefaultSnakeConfig()) {
		t.Errorf("embedded snake config differs from defaults:\n%+v\n%+v", snake, DefaultSnakeConfig())
	}

	runner, err := LoadRunner("")
	if err != nil {
		t.Fatalf("LoadRunner() error: %v", err)
	}
	if !reflect.DeepEqual(runner, DefaultRunnerConfig()) {
		t.Errorf("embedded runner config differs from defaults:\n%+v\n%+v", runner, DefaultRunnerConfig())
	}

	shooter, err := LoadShooter("")
	if err != nil {
		t.Fatalf("LoadShooter() error: %v", err)
	}
	if !reflect.DeepEqual(shooter, DefaultShooterConfig()) {
		t.Errorf("embedded shooter config differs from defaults:\n%+v\n%+v", shooter, DefaultShooterConfig())
	}
}

func TestLoadCustomPathOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	data := []byte("spawn:\n  platform_spike_offset: 55\nphysics:\n  gravity: 1.1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner() error: %v", err)
	}
	if cfg.Spawn.PlatformSpikeOffset != 55 {
		t.Errorf("PlatformSpikeOffset = %v, expected 55", cfg.Spawn.PlatformSpikeOffset)
	}
	if cfg.Physics.Gravity != 1.1 {
		t.Errorf("Gravity = %v, expected 1.1", cfg.Physics.Gravity)
	}
	if cfg.Physics.JumpImpulse != -12 {
		t.Errorf("JumpImpulse = %v, expected default -12", cfg.Physics.JumpImpulse)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadSnake(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnake(path); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestLoadUserConfigDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".arcade", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte("food:\n  avoid_body: true\n")
	if err := os.WriteFile(filepath.Join(dir, "snake.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSnake("")
	if err != nil {
		t.Fatalf("LoadSnake() error: %v", err)
	}
	if !cfg.Food.AvoidBody {
		t.Error("expected avoid_body from user config")
	}
	if cfg.Grid.Cols != 20 {
		t.Errorf("Cols = %d, expected default 20", cfg.Grid.Cols)
	}
}

func TestApplyPresets(t *testing.T) {
	shooter := DefaultShooterConfig()
	ApplyShooterPreset(&shooter, DifficultyFixed)
	if shooter.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	ApplyShooterPreset(&shooter, DifficultyHard)
	if !shooter.Difficulty.Enabled || shooter.Player.Lives != 2 {
		t.Errorf("hard preset: enabled=%v lives=%d", shooter.Difficulty.Enabled, shooter.Player.Lives)
	}

	snake := DefaultSnakeConfig()
	ApplySnakePreset(&snake, DifficultyEasy)
	if snake.Gameplay.TickMillis != 130 {
		t.Errorf("easy snake tick = %d, expected 130", snake.Gameplay.TickMillis)
	}
}

func TestParsePreset(t *testing.T) {
	tests := map[string]DifficultyPreset{
		"easy":   DifficultyEasy,
		"hard":   DifficultyHard,
		"fixed":  DifficultyFixed,
		"normal": DifficultyNormal,
		"":       DifficultyNormal,
		"insane": DifficultyNormal,
	}
	for in, expected := range tests {
		if got := ParsePreset(in); got != expected {
			t.Errorf("ParsePreset(%q) = %q, expected %q", in, got, expected)
		}
	}
}
