package match3

import "math/rand/v2"

// Generator produces gem types from a seeded PCG source.
// One generator is scoped to one game session.
type Generator struct {
	rng   *rand.Rand
	types int
	seed  uint64
}

// NewGenerator creates a generator drawing from types 1..types.
func NewGenerator(seed uint64, types int) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		types: types,
		seed:  seed,
	}
}

// Seed returns the seed the generator was created with.
func (gen *Generator) Seed() uint64 {
	return gen.seed
}

// Types returns the number of gem types the generator draws from.
func (gen *Generator) Types() int {
	return gen.types
}

// Next returns a uniformly random gem type.
func (gen *Generator) Next() GemType {
	return GemType(gen.rng.IntN(gen.types) + 1)
}

// IntN returns a uniformly random int in [0, n).
func (gen *Generator) IntN(n int) int {
	return gen.rng.IntN(n)
}

// Fill populates every cell column by column, bottom to top. A drawn type that
// would complete a match is replaced by a type not yet tried for that cell.
func (gen *Generator) Fill(g *Grid) {
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			c := C(x, y)
			g.Set(c, Gem(gen.Next()))

			tried := map[GemType]bool{}
			for HasMatchAt(g, c) {
				tried[g.Get(c).Type] = true
				if len(tried) >= gen.types {
					break
				}
				g.Set(c, Gem(gen.pickExcluding(tried)))
			}
		}
	}
}

// pickExcluding draws uniformly from the types not in tried.
func (gen *Generator) pickExcluding(tried map[GemType]bool) GemType {
	remaining := make([]GemType, 0, gen.types)
	for t := 1; t <= gen.types; t++ {
		if !tried[GemType(t)] {
			remaining = append(remaining, GemType(t))
		}
	}
	return remaining[gen.rng.IntN(len(remaining))]
}
