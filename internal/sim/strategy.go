package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/vovakirdan/gemcrush/internal/match3"
)

// Strategy picks the next swap for an autoplayer.
type Strategy interface {
	Name() string
	// Choose returns a move from moves, which is never empty.
	Choose(moves []match3.Move, rng *rand.Rand) match3.Move
}

// Greedy takes the swap that matches the most tiles immediately.
// Ties go to the first move in scan order.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Choose(moves []match3.Move, _ *rand.Rand) match3.Move {
	best := moves[0]
	for _, m := range moves[1:] {
		if m.Size > best.Size {
			best = m
		}
	}
	return best
}

// Random takes any matching swap with equal probability.
type Random struct{}

func (Random) Name() string { return "random" }

func (Random) Choose(moves []match3.Move, rng *rand.Rand) match3.Move {
	return moves[rng.IntN(len(moves))]
}

// BottomFirst takes the lowest matching swap, which tends to shake more of the
// board loose and start longer cascades.
type BottomFirst struct{}

func (BottomFirst) Name() string { return "bottom" }

func (BottomFirst) Choose(moves []match3.Move, _ *rand.Rand) match3.Move {
	best := moves[0]
	for _, m := range moves[1:] {
		if min(m.A.Y, m.B.Y) < min(best.A.Y, best.B.Y) {
			best = m
		}
	}
	return best
}

// Strategies lists the available strategies by name.
func Strategies() []string {
	return []string{"greedy", "random", "bottom"}
}

// ParseStrategy returns the strategy registered under name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "greedy", "":
		return Greedy{}, nil
	case "random":
		return Random{}, nil
	case "bottom":
		return BottomFirst{}, nil
	default:
		return nil, fmt.Errorf("sim: unknown strategy %q (valid: greedy, random, bottom)", name)
	}
}
