package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemcrush/internal/sim"
)

var (
	flagSimGames    int
	flagSimMoves    int
	flagSimStrategy string
	flagSimWorkers  int
	flagSimJSON     bool
	flagSimQuiet    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless autoplayer simulations",
	Long: `Play many games without a terminal and report score and cascade statistics.

Game i uses seed --seed + i, so runs are reproducible. Board size, gem count
and move limit come from --config and --difficulty; zen (no limit) plays
--moves moves per game.

Strategies:
  ` + strings.Join(sim.Strategies(), ", ") + `

Examples:
  gemcrush sim
  gemcrush sim --games 5000 --strategy random --seed 7
  gemcrush sim --difficulty hard --json > hard.json`,
	Run: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimGames, "games", 200, "Number of games to play")
	simCmd.Flags().IntVar(&flagSimMoves, "moves", 0, "Moves per game (0 = config move limit, or 30)")
	simCmd.Flags().StringVar(&flagSimStrategy, "strategy", "greedy", "Autoplayer strategy")
	simCmd.Flags().IntVar(&flagSimWorkers, "workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	simCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print the report as JSON")
	simCmd.Flags().BoolVar(&flagSimQuiet, "quiet", false, "Hide the progress bar")
}

func runSim(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger(os.Stderr)
	defer closeLog()

	fail := func(err error) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	cfg, err := loadGameConfig()
	if err != nil {
		fail(err)
	}

	moves := flagSimMoves
	if moves == 0 {
		moves = cfg.Rules.MoveLimit
	}
	if moves == 0 {
		moves = 30
	}

	var progress io.Writer = os.Stderr
	if flagSimQuiet || flagSimJSON {
		progress = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := sim.Run(ctx, sim.Options{
		Games:         flagSimGames,
		MovesPerGame:  moves,
		Seed:          flagSeed,
		Width:         cfg.Board.Width,
		Height:        cfg.Board.Height,
		Gems:          cfg.Rules.GemTypes,
		PointsPerTile: cfg.Rules.PointsPerTile,
		Strategy:      flagSimStrategy,
		Workers:       flagSimWorkers,
		Progress:      progress,
		Logger:        logger,
	})
	if err != nil {
		fail(err)
	}

	if flagSimJSON {
		if err := report.WriteJSON(os.Stdout); err != nil {
			fail(err)
		}
		return
	}
	fmt.Print(report.Table())
}
