package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gemcrush/internal/core"
	"github.com/vovakirdan/gemcrush/internal/platform/tui"
	"github.com/vovakirdan/gemcrush/internal/registry"
	"github.com/vovakirdan/gemcrush/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the specified mode (classic when omitted).

Controls:
  Arrows/hjkl  - Move cursor
  Space/Enter  - Select gem, select a neighbour to swap
  ?            - Hint
  P            - Pause
  Esc/B        - Back (when paused or game over)
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot to ~/.gemcrush/screenshots
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - 4 gem types, 40 moves
  normal - 5 gem types, 30 moves
  hard   - 6 gem types, 20 moves
  zen    - 5 gem types, no move limit

Examples:
  gemcrush play
  gemcrush play zen
  gemcrush play --difficulty hard
  gemcrush play --seed 42
  gemcrush play --config ./my-gemcrush.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

// terminalConfig builds the runtime config from the current terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the score database, or returns nil when it is unavailable.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := "classic"
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'gemcrush list' to see available modes.")
		os.Exit(1)
	}

	logger, closeLog := mustLogger(io.Discard)
	defer closeLog()

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Game still works without storage
	store := openStore()

	cfg := terminalConfig()
	logger.Info("starting game", "mode", gameID, "seed", cfg.Seed, "difficulty", flagDifficulty)
	runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		//nolint:errcheck // Exiting anyway
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		closeLog()
		os.Exit(1)
	}
}
