// Package sim plays headless gemcrush sessions with an autoplayer and
// aggregates their statistics.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cheggaaa/pb/v3"
	"github.com/vovakirdan/gemcrush/internal/match3"
)

// Options configures a batch simulation.
type Options struct {
	Games         int
	MovesPerGame  int
	Seed          uint64 // Game i is played with seed Seed+i
	Width         int
	Height        int
	Gems          int
	PointsPerTile int
	Strategy      string
	Workers       int       // 0 = GOMAXPROCS
	Progress      io.Writer // Progress bar output, nil = hidden
	Logger        *log.Logger
}

// Validate checks the options and fills defaults.
func (o *Options) Validate() error {
	if o.Games < 1 {
		return errors.New("sim: games must be > 0")
	}
	if o.MovesPerGame < 1 {
		return errors.New("sim: moves per game must be > 0")
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	o.Workers = min(o.Workers, o.Games)
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if _, err := ParseStrategy(o.Strategy); err != nil {
		return err
	}
	return nil
}

// GameResult summarizes one simulated session.
type GameResult struct {
	Seed       uint64
	Score      int
	Moves      int
	MaxDepth   int
	Promotions int
	Shuffles   int
	Depths     []int // cascade depth per move
	Points     []int // points per move
}

// Run plays opts.Games sessions and returns the aggregated report.
// Results do not depend on the number of workers. Cancellation is checked
// between games.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	strategy, _ := ParseStrategy(opts.Strategy)

	cfg := match3.Config{
		Width:         opts.Width,
		Height:        opts.Height,
		GemTypes:      opts.Gems,
		PointsPerTile: opts.PointsPerTile,
	}
	// Fail fast on a bad board before spinning up workers.
	if _, err := match3.NewEngine(cfg); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	bar := pb.New(opts.Games)
	if opts.Progress != nil {
		bar.SetWriter(opts.Progress)
	} else {
		bar.SetWriter(io.Discard)
	}
	bar.Start()

	opts.Logger.Info("simulation started", "games", opts.Games, "moves", opts.MovesPerGame,
		"strategy", strategy.Name(), "workers", opts.Workers, "seed", opts.Seed)

	results := make([]GameResult, opts.Games)
	jobs := make(chan int)
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c := cfg
				c.Seed = opts.Seed + uint64(i)
				res, err := PlayGame(c, opts.MovesPerGame, strategy)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				results[i] = res
				bar.Increment()
			}
		}()
	}

	start := time.Now()
	played := 0
feed:
	for i := 0; i < opts.Games; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
			played++
		}
	}
	close(jobs)
	wg.Wait()
	bar.Finish()
	elapsed := time.Since(start)

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		opts.Logger.Warn("simulation cancelled", "played", played, "of", opts.Games)
		return nil, fmt.Errorf("sim: cancelled after %d games: %w", played, err)
	}

	report := NewReport(strategy.Name(), opts, results, elapsed)
	opts.Logger.Info("simulation finished", "elapsed", elapsed.Round(time.Millisecond),
		"mean_score", report.Score.Mean)
	return report, nil
}

// PlayGame runs one session of up to moves moves with the given strategy.
// A board with no valid move is shuffled, which does not consume a move.
func PlayGame(cfg match3.Config, moves int, strategy Strategy) (GameResult, error) {
	engine, err := match3.NewEngine(cfg)
	if err != nil {
		return GameResult{}, fmt.Errorf("sim: seed %d: %w", cfg.Seed, err)
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xda942042e4dd58b5))

	result := GameResult{Seed: cfg.Seed}
	for result.Moves < moves {
		candidates := match3.ValidMoves(engine.Grid())
		if len(candidates) == 0 {
			if result.Shuffles >= moves {
				break
			}
			if err := engine.Shuffle(); err != nil {
				return result, fmt.Errorf("sim: seed %d: %w", cfg.Seed, err)
			}
			result.Shuffles++
			continue
		}

		m := strategy.Choose(candidates, rng)
		res := engine.AttemptMove(m.A, m.B)
		if res.Outcome != match3.OutcomeResolved {
			return result, fmt.Errorf("sim: seed %d: move %s->%s ended %s", cfg.Seed, m.A, m.B, res.Outcome)
		}
		result.Moves++
		result.Depths = append(result.Depths, res.Depth)
		result.Points = append(result.Points, res.Points)
		result.Promotions += res.Promotions
	}

	stats := engine.Stats()
	result.Score = stats.Score
	result.MaxDepth = stats.MaxDepth
	return result, nil
}
