// gemcrush is a match-3 puzzle game for the terminal.
//
// Usage:
//
//	gemcrush list              - List available modes
//	gemcrush play [mode]       - Play a mode (default: classic)
//	gemcrush menu              - Start menu to pick modes interactively
//	gemcrush serve             - Start SSH server for remote play
//	gemcrush api               - Start the JSON session API
//	gemcrush sim               - Run headless autoplayer simulations
//	gemcrush scores [mode]     - Show high scores for a mode
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 30)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.gemcrush/scores.db)
//	--config <path>       - Custom gemcrush YAML config
//	--difficulty <preset> - easy, normal, hard or zen
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file (TUI commands log nowhere otherwise)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemcrush/internal/config"
	"github.com/vovakirdan/gemcrush/internal/games/gemcrush"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       uint64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gemcrush",
	Short: "Gemcrush - match-3 puzzles in your terminal",
	Long: `Gemcrush is a match-3 puzzle game: swap neighbouring gems to line up
three or more of a kind, and watch the cascades roll.

Available commands:
  list     - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play
  api      - Start the JSON session API
  sim      - Run headless autoplayer simulations
  scores   - View high scores

Examples:
  gemcrush list
  gemcrush play
  gemcrush play zen --seed 42
  gemcrush menu
  gemcrush serve --ssh :2222
  gemcrush sim --games 1000 --strategy greedy`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if flagDifficulty != "" {
			if _, err := config.ParsePreset(flagDifficulty); err != nil {
				return err
			}
		}
		gemcrush.SetConfigPath(flagConfig)
		gemcrush.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	pf.Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.gemcrush/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom gemcrush config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, zen")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the process logger. Interactive commands pass
// io.Discard as the fallback so logs never draw over the game.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() {
			//nolint:errcheck // Best-effort close on exit
			f.Close()
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	gemcrush.SetLogger(logger)
	return logger, closeFn, nil
}

// mustLogger is newLogger for Run handlers.
func mustLogger(fallback io.Writer) (*log.Logger, func()) {
	logger, closeFn, err := newLogger(fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return logger, closeFn
}
