// Package gemcrush wraps the match-3 engine as a playable mode: a cursor
// drives taps, cascades play back at a configurable pace, and sessions end
// when the move limit runs out.
package gemcrush

import (
	"github.com/vovakirdan/gemcrush/internal/config"
	"github.com/vovakirdan/gemcrush/internal/core"
	"github.com/vovakirdan/gemcrush/internal/match3"
	"github.com/vovakirdan/gemcrush/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic" // Move limit from config or preset
	ModeZen     Mode = "zen"     // No move limit
)

const (
	minScreenW = 30
	minScreenH = 16

	hintTicks    = 90  // How long a hint stays highlighted
	messageTicks = 120 // How long a status message stays up
	maxShuffles  = 16  // Attempts to find a board with a valid move
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// Game implements a gemcrush session.
type Game struct {
	mode   Mode
	preset config.DifficultyPreset // overrides the package-level preset
	cfg    config.GemcrushConfig
	engine *match3.Engine
	events *match3.EventQueue
	seed   uint64
	tick   uint64

	cursor    match3.Coord
	stepTimer int
	lastMove  match3.MoveResult
	bursts    []match3.Coord // cells destroyed during the last tick

	hint      *match3.Move
	hintTimer int
	message   string
	msgTimer  int
	shuffles  int

	screenW  int
	screenH  int
	tooSmall bool
	paused   bool
	gameOver bool
}

// New creates a classic mode game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewZen creates a zen mode game with no move limit.
func NewZen() *Game {
	return &Game{mode: ModeZen}
}

func init() {
	registry.Register(string(ModeClassic), func() registry.Game {
		return New()
	})
	registry.Register(string(ModeZen), func() registry.Game {
		return NewZen()
	})
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeZen {
		return "Gemcrush (Zen)"
	}
	return "Gemcrush"
}

// Description returns a one-line summary of the mode.
func (g *Game) Description() string {
	if g.mode == ModeZen {
		return "Endless board, no move limit"
	}
	return "Score as much as you can before the moves run out"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	cfg, err := config.LoadGemcrush(configPath)
	if err != nil {
		logger.Warn("config rejected, using defaults", "path", configPath, "err", err)
		cfg = config.DefaultGemcrushConfig()
	}
	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	if preset != "" {
		config.ApplyPreset(&cfg, preset)
	}
	g.ResetWithConfig(runtime, cfg)
}

// SetPreset selects the difficulty for this game only. It takes effect on
// the next Reset.
func (g *Game) SetPreset(p config.DifficultyPreset) {
	g.preset = p
}

// ResetWithConfig restarts the game with an explicit configuration.
func (g *Game) ResetWithConfig(runtime core.RuntimeConfig, cfg config.GemcrushConfig) {
	if g.mode == ModeZen {
		cfg.Rules.MoveLimit = 0
	}
	g.cfg = cfg
	g.seed = runtime.Seed
	g.tick = 0
	g.stepTimer = 0
	g.lastMove = match3.MoveResult{}
	g.bursts = nil
	g.hint = nil
	g.hintTimer = 0
	g.message = ""
	g.msgTimer = 0
	g.shuffles = 0
	g.paused = false
	g.gameOver = false

	g.Resize(runtime.ScreenW, runtime.ScreenH)

	engine, err := match3.NewEngine(g.engineConfig())
	if err != nil {
		logger.Warn("board config rejected, using defaults", "err", err)
		g.cfg = config.DefaultGemcrushConfig()
		engine, _ = match3.NewEngine(g.engineConfig())
	}
	g.engine = engine
	g.events = &match3.EventQueue{SkipCellChanges: true}
	g.engine.Subscribe(g.events)
	g.engine.Subscribe(NewLogListener(logger.With("mode", g.mode, "seed", g.seed)))

	g.cursor = match3.C(g.cfg.Board.Width/2, g.cfg.Board.Height/2)
	g.ensurePlayable()
}

func (g *Game) engineConfig() match3.Config {
	return match3.Config{
		Width:         g.cfg.Board.Width,
		Height:        g.cfg.Board.Height,
		GemTypes:      g.cfg.Rules.GemTypes,
		Seed:          g.seed,
		PointsPerTile: g.cfg.Rules.PointsPerTile,
	}
}

// Engine exposes the underlying board engine.
func (g *Game) Engine() *match3.Engine {
	return g.engine
}

// Config returns the configuration the session was started with.
func (g *Game) Config() config.GemcrushConfig {
	return g.cfg
}

// Cursor returns the cell under the cursor.
func (g *Game) Cursor() match3.Coord {
	return g.cursor
}

// Resize updates the screen dimensions without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < minScreenW || h < minScreenH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	defer g.collectEvents()

	if g.tooSmall {
		return g.result()
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result()
	}

	g.tickTimers()

	if g.engine.Busy() {
		g.advanceCascade()
		return g.result()
	}

	if g.gameOver {
		return g.result()
	}

	g.handleInput(in)
	return g.result()
}

// collectEvents drains the engine events produced during this tick.
func (g *Game) collectEvents() {
	g.bursts = g.bursts[:0]
	for _, ev := range g.events.Drain() {
		if d, ok := ev.(match3.TileDestroyed); ok {
			g.bursts = append(g.bursts, d.At)
		}
	}
}

func (g *Game) tickTimers() {
	if g.hintTimer > 0 {
		g.hintTimer--
		if g.hintTimer == 0 {
			g.hint = nil
		}
	}
	if g.msgTimer > 0 {
		g.msgTimer--
		if g.msgTimer == 0 {
			g.message = ""
		}
	}
}

// advanceCascade runs one phase every StepTicks ticks.
func (g *Game) advanceCascade() {
	g.stepTimer++
	if g.stepTimer < g.cfg.Pacing.StepTicks {
		return
	}
	g.stepTimer = 0
	if g.engine.Advance() == match3.PhaseIdle {
		g.settle()
	}
}

func (g *Game) handleInput(in core.InputFrame) {
	w, h := g.cfg.Board.Width, g.cfg.Board.Height
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Y = core.Clamp(g.cursor.Y+1, 0, h-1)
	case in.Has(core.ActionDown):
		g.cursor.Y = core.Clamp(g.cursor.Y-1, 0, h-1)
	case in.Has(core.ActionLeft):
		g.cursor.X = core.Clamp(g.cursor.X-1, 0, w-1)
	case in.Has(core.ActionRight):
		g.cursor.X = core.Clamp(g.cursor.X+1, 0, w-1)
	}

	if in.Has(core.ActionHint) {
		g.showHint()
	}

	if in.Has(core.ActionSelect) {
		res := g.engine.Tap(g.cursor)
		if res.Outcome == match3.OutcomePending {
			g.hint = nil
			g.hintTimer = 0
			g.stepTimer = 0
			if g.cfg.Pacing.StepTicks == 0 {
				g.engine.Resolve()
				g.settle()
			}
		}
	}
}

// showHint highlights the swap that matches the most tiles.
func (g *Game) showHint() {
	moves := match3.ValidMoves(g.engine.Grid())
	if len(moves) == 0 {
		return
	}
	best := moves[0]
	for _, m := range moves[1:] {
		if m.Size > best.Size {
			best = m
		}
	}
	g.hint = &best
	g.hintTimer = hintTicks
}

// settle runs once the board returns to idle after a move.
func (g *Game) settle() {
	g.lastMove = g.engine.LastResult()
	if g.lastMove.Outcome == match3.OutcomeResolved && g.lastMove.Depth > 1 {
		g.flash(cascadeMessage(g.lastMove.Depth))
	}

	if g.cfg.Rules.MoveLimit > 0 && g.movesUsed() >= g.cfg.Rules.MoveLimit {
		g.gameOver = true
		logger.Info("session over", "mode", g.mode, "score", g.engine.Stats().Score, "moves", g.movesUsed())
		return
	}
	g.ensurePlayable()
}

// ensurePlayable reshuffles a board that has no valid move left.
func (g *Game) ensurePlayable() {
	for i := 0; i < maxShuffles && !match3.HasValidMove(g.engine.Grid()); i++ {
		if err := g.engine.Shuffle(); err != nil {
			return
		}
		g.shuffles++
		g.flash("No moves left, board shuffled")
	}
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.msgTimer = messageTicks
}

func cascadeMessage(depth int) string {
	switch {
	case depth >= 5:
		return "Spectacular cascade!"
	case depth >= 3:
		return "Great cascade!"
	default:
		return "Cascade!"
	}
}

// movesUsed counts accepted moves that matched. Reverted swaps are free.
func (g *Game) movesUsed() int {
	s := g.engine.Stats()
	return s.Moves - s.Reverted
}

func (g *Game) movesLeft() int {
	if g.cfg.Rules.MoveLimit <= 0 {
		return -1
	}
	return max(g.cfg.Rules.MoveLimit-g.movesUsed(), 0)
}

func (g *Game) result() core.StepResult {
	return core.StepResult{
		State:   g.State(),
		Settled: !g.engine.Busy(),
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	stats := g.engine.Stats()
	return core.GameState{
		Score:      stats.Score,
		Moves:      g.movesUsed(),
		MovesLeft:  g.movesLeft(),
		MaxCascade: stats.MaxDepth,
		GameOver:   g.gameOver,
		Paused:     g.paused || g.tooSmall,
	}
}
