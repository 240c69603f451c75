package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/platform/tui"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, Esc returns you to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change difficulty
  Enter/Space  - Select game
  S            - Scoreboard
  Q            - Quit

Examples:
  arcade menu
  arcade menu --difficulty easy
  arcade menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("arcade", false)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	var kv engine.KV = storage.NewMemory()
	if store != nil {
		defer store.Close()
		kv = store
	}

	deps := newDeps(store, logger)
	cfg := terminalConfig()

	for {
		result, err := tui.RunMenu(kv, deps.Preset, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config
		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		if result.GameID == "" {
			return nil
		}

		deps.Preset = result.Preset
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		logger.Info("starting game", "game", result.GameID, "difficulty", result.Preset)
		if err := tui.Run(result.GameID, deps, cfg); err != nil {
			logger.Error("game failed", "game", result.GameID, "err", err)
		}
	}
}
