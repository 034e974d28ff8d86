package gemcrush

import "github.com/vovakirdan/gemcrush/internal/match3"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateResolving   GameStateType = "resolving"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick       uint64
	Mode       string
	Seed       uint64
	Score      int
	Moves      int
	MovesLeft  int
	MaxCascade int
	Shuffles   int
	Phase      string
	Cursor     match3.Coord
	Board      string // match3.Grid.String rendering
	State      GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	case g.engine.Busy():
		state = StateResolving
	}

	s := g.State()
	return Snapshot{
		Tick:       g.tick,
		Mode:       string(g.mode),
		Seed:       g.seed,
		Score:      s.Score,
		Moves:      s.Moves,
		MovesLeft:  s.MovesLeft,
		MaxCascade: s.MaxCascade,
		Shuffles:   g.shuffles,
		Phase:      g.engine.Phase().String(),
		Cursor:     g.cursor,
		Board:      g.engine.Grid().String(),
		State:      state,
	}
}
