package match3

// Effect is a special behaviour a tile triggers when it is destroyed.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectClearRow
)

// String returns the string representation of an effect.
func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectClearRow:
		return "clear-row"
	default:
		return "unknown"
	}
}

// effectTargets returns the cells an effect triggered at origin destroys.
// Only occupied cells are returned, left to right.
func effectTargets(g *Grid, e Effect, origin Coord) []Coord {
	switch e {
	case EffectClearRow:
		targets := make([]Coord, 0, g.W)
		for x := 0; x < g.W; x++ {
			c := C(x, origin.Y)
			if !g.Get(c).Empty() {
				targets = append(targets, c)
			}
		}
		return targets
	default:
		return nil
	}
}
