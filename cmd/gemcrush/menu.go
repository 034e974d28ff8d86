package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemcrush/internal/games/gemcrush"
	"github.com/vovakirdan/gemcrush/internal/platform/tui"
	"github.com/vovakirdan/gemcrush/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start gemcrush with a mode picker menu",
	Long: `Start gemcrush in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to pick a difficulty,
Enter to play. Press Esc on the pause or game over screen to return to
the menu.

Controls:
  Up/Down/j/k     - Navigate modes
  Left/Right/h/l  - Change difficulty
  Enter/Space     - Play
  Tab             - High scores
  Q               - Quit

Examples:
  gemcrush menu
  gemcrush menu --fps 60
  gemcrush menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger(io.Discard)
	defer closeLog()

	store := openStore()
	cfg := terminalConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		if menuResult.GameID == "" {
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if g, ok := game.(*gemcrush.Game); ok {
			g.SetPreset(menuResult.Difficulty)
		}

		// Fresh board for each game unless a seed was pinned
		runCfg := cfg
		if flagSeed == 0 {
			runCfg.Seed = 0
		}
		logger.Info("starting game", "mode", menuResult.GameID, "difficulty", menuResult.Difficulty)
		if err := tui.Run(game, store, runCfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	if store != nil {
		//nolint:errcheck // Exiting anyway
		store.Close()
	}
}
