// arcade runs the neon arcade: snake, runner and shooter on one engine,
// played in the terminal, over SSH or in a browser.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game in the terminal
//	arcade menu              - Pick games interactively
//	arcade scores <game>     - Show recorded scores for a game
//	arcade serve             - Start the SSH server
//	arcade web               - Start the HTTP/WebSocket server
//	arcade snapshot <game>   - Render a headless frame to PNG
//
// Global flags:
//
//	--db <path>          - Scores database (env ARCADE_DB, default ~/.arcade/scores.db)
//	--seed <value>       - RNG seed for reproducible gameplay
//	--log-level <level>  - debug, info, warn, error (env ARCADE_LOG_LEVEL)
//	--log-file <path>    - Write logs to a file
//	--config <path>      - Custom game config YAML
//	--difficulty <name>  - easy, normal, hard, fixed
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/core"
	_ "github.com/vovakirdan/neon-arcade/internal/games/runner"
	_ "github.com/vovakirdan/neon-arcade/internal/games/shooter"
	_ "github.com/vovakirdan/neon-arcade/internal/games/snake"
	"github.com/vovakirdan/neon-arcade/internal/host"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

var (
	flagSeed       int64
	flagDBPath     string
	flagLogLevel   string
	flagLogFile    string
	flagConfig     string
	flagDifficulty string
)

// envFlags are read from the environment (and .env) when not set on the
// command line.
var envFlags = map[string]string{
	"db":        "ARCADE_DB",
	"log-level": "ARCADE_LOG_LEVEL",
	"addr":      "ARCADE_HTTP_ADDR",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Neon Arcade - snake, runner and shooter on one engine",
	Long: `Neon Arcade runs three classic games on a shared tick engine.
Play them in your terminal, host them over SSH, or serve them to a browser.

Examples:
  arcade list
  arcade play snake
  arcade play runner --difficulty hard
  arcade menu
  arcade serve --ssh :2222
  arcade web --addr :8080
  arcade snapshot shooter --ticks 300 --out shooter.png`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnv,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(listCmd, playCmd, menuCmd, scoresCmd, serveCmd, webCmd, snapshotCmd)
}

// loadEnv reads .env if present and fills unset flags from the environment.
func loadEnv(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		env, ok := envFlags[f.Name]
		if !ok || f.Changed || err != nil {
			return
		}
		if v, set := os.LookupEnv(env); set {
			err = cmd.Flags().Set(f.Name, v)
		}
	})
	return err
}

// newLogger builds the process logger. Terminal games log only to
// --log-file so the screen stays clean; servers also log to stderr.
func newLogger(prefix string, toStderr bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q", flagLogLevel)
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
		if toStderr {
			w = io.MultiWriter(f, os.Stderr)
		}
	case toStderr:
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// openStore opens the scores database. Failure is logged and play continues
// with in-memory high scores.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not persist", "path", flagDBPath, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func newDeps(store *storage.Store, logger *log.Logger) host.Deps {
	deps := host.Deps{
		Store:      store,
		Logger:     logger,
		Seed:       flagSeed,
		ConfigPath: flagConfig,
	}
	if flagDifficulty != "" {
		deps.Preset = config.ParsePreset(flagDifficulty)
	}
	return deps
}

// terminalConfig sizes the screen to the current terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.Seed = flagSeed
	return cfg
}
