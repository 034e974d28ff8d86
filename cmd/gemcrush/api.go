package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemcrush/internal/config"
	"github.com/vovakirdan/gemcrush/internal/platform/httpapi"
)

var (
	flagAPIAddr        string
	flagAPIMaxSessions int
	flagAPISessionTTL  time.Duration
	flagAPINoScores    bool
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the JSON session API",
	Long: `Start an HTTP server exposing gemcrush sessions as JSON.

Endpoints:
  POST   /v1/sessions             - New session {width, height, gems, seed}
  GET    /v1/sessions/{id}        - Board, stats and selection
  POST   /v1/sessions/{id}/moves  - Swap {a:{x,y}, b:{x,y}}, returns result and events
  POST   /v1/sessions/{id}/taps   - Tap {x, y}
  POST   /v1/sessions/{id}/shuffle
  GET    /v1/sessions/{id}/hint   - Best valid move
  DELETE /v1/sessions/{id}        - Close the session and record its score
  GET    /v1/scores?mode=&limit=  - High scores
  GET    /healthz

Board defaults come from --config and --difficulty.

Examples:
  gemcrush api
  gemcrush api --addr :9090 --session-ttl 10m
  curl -X POST localhost:8080/v1/sessions -d '{"seed":42}'`,
	Run: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", ":8080", "HTTP listen address")
	apiCmd.Flags().IntVar(&flagAPIMaxSessions, "max-sessions", 1024, "Maximum live sessions (0 = unlimited)")
	apiCmd.Flags().DurationVar(&flagAPISessionTTL, "session-ttl", 30*time.Minute, "Evict sessions idle for this long (0 = never)")
	apiCmd.Flags().BoolVar(&flagAPINoScores, "no-scores", false, "Do not record scores of closed sessions")
}

// loadGameConfig loads the gemcrush config with the difficulty preset applied.
func loadGameConfig() (config.GemcrushConfig, error) {
	cfg, err := config.LoadGemcrush(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg, nil
}

func runAPI(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger(os.Stderr)
	defer closeLog()

	defaults, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	opts := httpapi.DefaultOptions()
	opts.Addr = flagAPIAddr
	opts.MaxSessions = flagAPIMaxSessions
	opts.SessionTTL = flagAPISessionTTL
	opts.Defaults = defaults
	opts.Logger = logger
	if !flagAPINoScores {
		opts.Store = openStore()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = httpapi.New(opts).ListenAndServe(ctx)
	if opts.Store != nil {
		//nolint:errcheck // Exiting anyway
		opts.Store.Close()
	}
	if err != nil {
		logger.Error("server stopped", "err", err)
		closeLog()
		os.Exit(1)
	}
}
