package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-arcade/internal/platform/tui"
	"github.com/vovakirdan/neon-arcade/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game in the terminal",
	Long: `Start playing the specified game in your terminal.

Controls:
  Enter        - Start or restart
  Arrows/WASD  - Move (snake, shooter)
  Space/Up     - Jump (runner), fire (shooter)
  Esc          - Stop the round
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Examples:
  arcade play snake
  arcade play runner --seed 42
  arcade play shooter --difficulty hard
  arcade play snake --config ./my-snake.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		return fmt.Errorf("unknown game %q", gameID)
	}

	logger, closeLog, err := newLogger("arcade", false)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	logger.Info("starting game", "game", gameID, "seed", flagSeed)
	return tui.Run(gameID, newDeps(store, logger), terminalConfig())
}
