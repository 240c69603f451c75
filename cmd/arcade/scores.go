package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-arcade/internal/engine"
	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresRecent bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show recorded scores for a game",
	Long: `Display the top scores for the specified game.

Examples:
  arcade scores snake
  arcade scores runner --recent
  arcade scores shooter --limit 25
  arcade scores snake --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the most recent scores instead of the best")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores and the high score for the game")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := args[0]
	info, ok := registry.Lookup(gameID)
	if !ok {
		return fmt.Errorf("unknown game %q (run 'arcade list')", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		if err := store.Delete(engine.HighScoreKey(gameID)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared scores for %s.\n", info.Title)
		return nil
	}

	fetch, heading := store.TopScores, "High Scores"
	if flagScoresRecent {
		fetch, heading = store.RecentScores, "Recent Scores"
	}
	scores, err := fetch(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}

	fmt.Fprintf(out, "%s - %s\n\n", heading, info.Title)
	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'arcade play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Fprintf(out, "  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Fprintln(out)
	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Fprintf(out, "Best: %d   Games: %d   Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}
