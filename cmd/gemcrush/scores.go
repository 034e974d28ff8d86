package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemcrush/internal/platform/httpapi"
	"github.com/vovakirdan/gemcrush/internal/registry"
	"github.com/vovakirdan/gemcrush/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresAll   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores for the specified mode (classic when omitted).
Sessions played through the HTTP API are recorded under the "api" mode.

Examples:
  gemcrush scores
  gemcrush scores zen --limit 20
  gemcrush scores --all
  gemcrush scores classic --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show aggregate stats for every mode")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores of the mode")
}

func modeTitle(mode string) string {
	if mode == httpapi.ScoreMode {
		return "HTTP API"
	}
	game, err := registry.Create(mode)
	if err != nil {
		return mode
	}
	return game.Title()
}

func runScores(_ *cobra.Command, args []string) {
	mode := "classic"
	if len(args) == 1 {
		mode = args[0]
	}

	if !flagScoresAll && !registry.Exists(mode) && mode != httpapi.ScoreMode {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'gemcrush list' to see available modes.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagScoresAll:
		err = printAllStats(store)
	case flagScoresClear:
		err = store.ClearScores(mode)
		if err == nil {
			fmt.Printf("Cleared scores for %s.\n", modeTitle(mode))
		}
	default:
		err = printTopScores(store, mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}

func printTopScores(store *storage.Store, mode string) error {
	scores, err := store.TopScores(mode, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", modeTitle(mode))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'gemcrush play %s' to set the first high score!\n", mode)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-7s  %-20s  %s\n", "Rank", "Score", "Moves", "Cascade", "Seed", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-7s  %-20s  %s\n", "----", "-----", "-----", "-------", "----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-8d  %-5d  x%-6d  %-20d  %s\n",
			i+1, e.Score, e.Moves, e.MaxCascade, e.Seed, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(mode)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  |  Games: %d  |  Average: %.0f  |  Best cascade: x%d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestCascade)
	}
	return nil
}

func printAllStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	modes := make([]string, 0, len(all))
	for m := range all {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	fmt.Printf("  %-16s  %-6s  %-8s  %-8s  %-7s  %s\n", "Mode", "Games", "Best", "Average", "Cascade", "Last played")
	fmt.Printf("  %-16s  %-6s  %-8s  %-8s  %-7s  %s\n", "----", "-----", "----", "-------", "-------", "-----------")
	for _, m := range modes {
		s := all[m]
		fmt.Printf("  %-16s  %-6d  %-8d  %-8.0f  x%-6d  %s\n",
			modeTitle(m), s.GamesCount, s.HighScore, s.AvgScore, s.BestCascade,
			s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
