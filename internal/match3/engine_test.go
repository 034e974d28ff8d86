package match3

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patternGrid returns a board where no two neighbours share a type.
func patternGrid(w, h int) *Grid {
	g := NewGrid(w, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			g.Set(C(x, y), Gem(GemType((x+2*y)%3+1)))
		}
	}
	return g
}

// moveBoard is patternGrid(8, 8) where swapping (1,0) and (1,1) lines up
// three type-1 gems along the bottom row.
func moveBoard() *Grid {
	g := patternGrid(8, 8)
	g.Set(C(2, 0), Gem(1))
	g.Set(C(3, 0), Gem(3))
	return g
}

func engineWithGrid(t *testing.T, g *Grid) (*Engine, *EventQueue) {
	t.Helper()
	e, err := NewEngine(Config{Width: g.W, Height: g.H, GemTypes: 3, Seed: 7})
	require.NoError(t, err)
	g.onChange = e.cellChanged
	e.grid = g

	q := &EventQueue{SkipCellChanges: true}
	e.Subscribe(q)
	return e, q
}

func countEvents[T Event](events []Event) int {
	n := 0
	for _, ev := range events {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	_, err := NewEngine(Config{Width: 0, Height: 8, GemTypes: 5})
	assert.ErrorIs(t, err, ErrEmptyGrid)

	_, err = NewEngine(Config{Width: 8, Height: 8, GemTypes: 2})
	assert.ErrorIs(t, err, ErrTooFewGemTypes)

	_, err = NewEngine(Config{Width: 8, Height: 8, GemTypes: MaxGemTypes + 1})
	assert.ErrorIs(t, err, ErrTooManyGemTypes)

	_, err = NewEngine(Config{Width: 8, Height: 8, GemTypes: 300, Seed: 5})
	assert.ErrorIs(t, err, ErrTooManyGemTypes)
}

func TestNewEngineWithMaxGemTypesFillsBoard(t *testing.T) {
	e, err := NewEngine(Config{Width: 8, Height: 8, GemTypes: MaxGemTypes, Seed: 5})
	require.NoError(t, err)

	g := e.Grid()
	assert.Equal(t, 64, g.FilledCount())
	for _, tile := range g.Cells {
		assert.LessOrEqual(t, int(tile.Type), MaxGemTypes)
	}
}

func TestFixtureBoardsAreSettled(t *testing.T) {
	for _, g := range []*Grid{patternGrid(8, 8), moveBoard()} {
		for i := range g.Cells {
			c := C(i%g.W, i/g.W)
			require.False(t, HasMatchAt(g, c), "match at %s\n%s", c, g)
		}
	}
}

func TestAttemptMoveResolvesMatch(t *testing.T) {
	e, q := engineWithGrid(t, moveBoard())

	res := e.AttemptMove(C(1, 0), C(1, 1))

	require.Equal(t, OutcomeResolved, res.Outcome)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, []Coord{C(1, 0), C(2, 0), C(0, 0)}, res.Groups[0])
	assert.GreaterOrEqual(t, res.Destroyed, 3)
	assert.GreaterOrEqual(t, res.Depth, 1)
	assert.GreaterOrEqual(t, res.Points, 3*DefaultPointsPerTile)

	assert.Equal(t, PhaseIdle, e.Phase())
	assert.False(t, e.Busy())
	assert.Equal(t, 64, e.Grid().FilledCount())

	events := q.Drain()
	var destroyed []Coord
	for _, ev := range events {
		if d, ok := ev.(TileDestroyed); ok && len(destroyed) < 3 {
			destroyed = append(destroyed, d.At)
		}
	}
	assert.Equal(t, []Coord{C(1, 0), C(2, 0), C(0, 0)}, destroyed)
	assert.Equal(t, 1, countEvents[CascadeComplete](events))

	// The first pass empties and refills exactly the three matched cells.
	first := -1
	for i, ev := range events {
		if _, ok := ev.(MatchFound); ok {
			first = i
			break
		}
	}
	require.NotEqual(t, -1, first, "no MatchFound event")
	found := events[first].(MatchFound)
	require.Len(t, found.Groups, 1)
	assert.Len(t, found.Groups[0], 3)

	var pass []Event
	for _, ev := range events[first+1:] {
		_, match := ev.(MatchFound)
		_, done := ev.(CascadeComplete)
		if match || done {
			break
		}
		pass = append(pass, ev)
	}
	assert.Equal(t, 3, countEvents[TileDestroyed](pass))
	assert.Equal(t, 3, countEvents[TileSpawned](pass))

	stats := e.Stats()
	assert.Equal(t, 1, stats.Moves)
	assert.Equal(t, res.Points, stats.Score)
	assert.Equal(t, res.Depth, stats.MaxDepth)
}

func TestAttemptMoveRevertsWithoutMatch(t *testing.T) {
	e, q := engineWithGrid(t, patternGrid(8, 8))
	before := e.Grid()

	res := e.AttemptMove(C(0, 0), C(1, 0))

	assert.Equal(t, OutcomeReverted, res.Outcome)
	assert.True(t, before.Equal(e.Grid()))
	assert.Equal(t, PhaseIdle, e.Phase())
	assert.False(t, e.Busy())
	assert.Equal(t, []Event{NoMatch{}}, q.Drain())
	assert.Equal(t, 1, e.Stats().Reverted)
}

func TestAttemptMoveRejections(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want error
	}{
		{"out of bounds", C(7, 0), C(8, 0), ErrInvalidCoordinate},
		{"negative", C(0, 0), C(-1, 0), ErrInvalidCoordinate},
		{"not adjacent", C(0, 0), C(2, 0), ErrIllegalMove},
		{"diagonal", C(0, 0), C(1, 1), ErrIllegalMove},
		{"same cell", C(3, 3), C(3, 3), ErrIllegalMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, q := engineWithGrid(t, moveBoard())
			before := e.Grid()

			res := e.AttemptMove(tt.a, tt.b)

			assert.Equal(t, OutcomeRejected, res.Outcome)
			assert.ErrorIs(t, res.Reason, tt.want)
			assert.True(t, before.Equal(e.Grid()))
			assert.Equal(t, []Event{MoveRejected{A: tt.a, B: tt.b, Reason: tt.want}}, q.Drain())
		})
	}
}

func TestAttemptMoveRejectsEmptyCell(t *testing.T) {
	g := moveBoard()
	g.Clear(C(4, 4))
	e, _ := engineWithGrid(t, g)

	res := e.AttemptMove(C(4, 4), C(4, 5))
	assert.ErrorIs(t, res.Reason, ErrInvalidCoordinate)
}

func TestBeginRejectsWhileBusy(t *testing.T) {
	e, _ := engineWithGrid(t, moveBoard())

	require.Equal(t, OutcomePending, e.Begin(C(1, 0), C(1, 1)).Outcome)
	require.True(t, e.Busy())

	res := e.AttemptMove(C(5, 5), C(5, 6))
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.ErrorIs(t, res.Reason, ErrIllegalMove)

	assert.Equal(t, OutcomeResolved, e.Resolve().Outcome)
	assert.False(t, e.Busy())
}

func TestAdvancePhaseSequence(t *testing.T) {
	e, _ := engineWithGrid(t, moveBoard())
	require.Equal(t, OutcomePending, e.Begin(C(1, 0), C(1, 1)).Outcome)
	assert.Equal(t, PhaseSwapping, e.Phase())

	want := []Phase{PhaseEvaluating, PhaseExploding, PhaseFalling, PhaseRefilling, PhaseEvaluating}
	for i, p := range want {
		require.Equal(t, p, e.Advance(), "step %d", i)
	}

	for steps := 0; e.Phase() != PhaseIdle; steps++ {
		require.Less(t, steps, 1000, "cascade did not settle")
		e.Advance()
	}
	assert.False(t, e.Busy())
}

func TestPacedAndResolvedRunsAgree(t *testing.T) {
	resolved, _ := engineWithGrid(t, moveBoard())
	paced, _ := engineWithGrid(t, moveBoard())

	a := resolved.AttemptMove(C(1, 0), C(1, 1))

	paced.Begin(C(1, 0), C(1, 1))
	for paced.Advance() != PhaseIdle {
	}
	b := paced.LastResult()

	assert.True(t, resolved.Grid().Equal(paced.Grid()))
	assert.Equal(t, a, b)
}

func TestIdleAdvanceAndResolveAreNoOps(t *testing.T) {
	e, q := engineWithGrid(t, moveBoard())
	before := e.Grid()

	assert.Equal(t, PhaseIdle, e.Advance())
	assert.Equal(t, OutcomeNone, e.Resolve().Outcome)

	assert.True(t, before.Equal(e.Grid()))
	assert.Zero(t, q.Len())
	assert.Zero(t, e.Stats().Moves)
}

func TestExplodePromotesAnchor(t *testing.T) {
	e, q := engineWithGrid(t, GridFromRows([][]GemType{
		{2, 3, 2, 3},
		{3, 2, 1, 2},
		{1, 1, 1, 3},
	}))
	e.move.Depth = 1
	e.groups = [][]Coord{{C(2, 0), C(1, 0), C(0, 0), C(2, 1)}}

	e.explode()

	assert.Equal(t, Tile{Type: 1, Effect: EffectClearRow}, e.Tile(C(2, 0)))
	for _, c := range []Coord{C(1, 0), C(0, 0), C(2, 1)} {
		assert.True(t, e.Tile(c).Empty(), "cell %s", c)
	}
	assert.False(t, e.dirty.Contains(C(2, 0)))
	assert.Equal(t, 1, e.move.Promotions)
	assert.Equal(t, 3, e.move.Destroyed)
	assert.Equal(t, 1, countEvents[TilePromoted](q.Drain()))

	// Destroying the promoted tile clears its row only.
	e.destroy(C(2, 0))
	e.runEffects()

	for x := 0; x < 4; x++ {
		assert.True(t, e.Tile(C(x, 0)).Empty(), "row 0 x=%d", x)
	}
	assert.Equal(t, GemType(3), e.Tile(C(0, 1)).Type)
	assert.Equal(t, GemType(2), e.Tile(C(3, 1)).Type)
	assert.Equal(t, 1, countEvents[EffectTriggered](q.Drain()))
}

func TestEffectChainsThroughQueue(t *testing.T) {
	e, q := engineWithGrid(t, GridFromRows([][]GemType{
		{1, 2, 3, 1},
	}))
	e.move.Depth = 1
	e.grid.Set(C(0, 0), Tile{Type: 1, Effect: EffectClearRow})
	e.grid.Set(C(3, 0), Tile{Type: 1, Effect: EffectClearRow})

	e.destroy(C(0, 0))
	e.runEffects()

	assert.Equal(t, 0, e.grid.FilledCount())
	assert.Equal(t, 4, e.move.Destroyed)
	events := q.Drain()
	assert.Equal(t, 2, countEvents[EffectTriggered](events))
	assert.Equal(t, EffectTriggered{At: C(0, 0), Effect: EffectClearRow}, events[1])
}

func TestExplodeRoundRobin(t *testing.T) {
	e, q := engineWithGrid(t, GridFromRows([][]GemType{
		{1, 2, 2, 2},
		{1, 3, 1, 3},
		{1, 2, 3, 2},
	}))
	e.move.Depth = 1
	e.groups = [][]Coord{
		{C(0, 0), C(0, 1), C(0, 2)},
		{C(1, 2), C(2, 2), C(3, 2)},
	}

	e.explode()

	var order []Coord
	for _, ev := range q.Drain() {
		if d, ok := ev.(TileDestroyed); ok {
			order = append(order, d.At)
		}
	}
	assert.Equal(t, []Coord{C(0, 0), C(1, 2), C(0, 1), C(2, 2), C(0, 2), C(3, 2)}, order)
}

func TestFallCompactsColumn(t *testing.T) {
	e, q := engineWithGrid(t, GridFromRows([][]GemType{
		{3},
		{0},
		{2},
		{0},
		{1},
	}))

	e.fall()

	for y, want := range []GemType{1, 2, 3, 0, 0} {
		assert.Equal(t, want, e.Tile(C(0, y)).Type, "row %d", y)
	}
	assert.Equal(t, []Event{
		TileFell{X: 0, FromY: 2, ToY: 1},
		TileFell{X: 0, FromY: 4, ToY: 2},
	}, q.Drain())
	assert.Equal(t, []Coord{C(0, 1), C(0, 2)}, e.dirty.Coords())
}

func TestFallGolden(t *testing.T) {
	e, _ := engineWithGrid(t, GridFromRows([][]GemType{
		{1, 2, 3},
		{0, 0, 1},
		{2, 0, 3},
	}))

	e.fall()

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "fall_compacts", []byte(e.grid.String()))
}

func TestRefillOrder(t *testing.T) {
	e, q := engineWithGrid(t, GridFromRows([][]GemType{
		{0, 0},
		{1, 0},
	}))

	e.refill()

	assert.Equal(t, 4, e.grid.FilledCount())
	var spawned []Coord
	for _, ev := range q.Drain() {
		spawned = append(spawned, ev.(TileSpawned).At)
	}
	assert.Equal(t, []Coord{C(0, 1), C(1, 0), C(1, 1)}, spawned)
	assert.Equal(t, spawned, e.dirty.Coords())
}

func TestTapFlow(t *testing.T) {
	e, q := engineWithGrid(t, moveBoard())

	res := e.Tap(C(1, 0))
	assert.Equal(t, OutcomeSelected, res.Outcome)
	sel, ok := e.Selection()
	assert.True(t, ok)
	assert.Equal(t, C(1, 0), sel)

	res = e.Tap(C(1, 0))
	assert.Equal(t, OutcomeDeselected, res.Outcome)
	_, ok = e.Selection()
	assert.False(t, ok)
	assert.Equal(t, []Event{Selected{At: C(1, 0)}, Deselected{At: C(1, 0)}}, q.Drain())

	e.Tap(C(1, 0))
	res = e.Tap(C(4, 4))
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.ErrorIs(t, res.Reason, ErrIllegalMove)
	_, ok = e.Selection()
	assert.False(t, ok)
	assert.Equal(t, []Event{Selected{At: C(1, 0)}, Deselected{At: C(1, 0)}, NoMatch{}}, q.Drain())

	e.Tap(C(1, 0))
	res = e.Tap(C(1, 1))
	assert.Equal(t, OutcomePending, res.Outcome)
	assert.True(t, e.Busy())
	_, ok = e.Selection()
	assert.False(t, ok)

	res = e.Tap(C(5, 5))
	assert.ErrorIs(t, res.Reason, ErrIllegalMove)

	assert.Equal(t, OutcomeResolved, e.Resolve().Outcome)
}

func TestTapRejectsInvalidCell(t *testing.T) {
	e, _ := engineWithGrid(t, moveBoard())

	res := e.Tap(C(9, 9))
	assert.ErrorIs(t, res.Reason, ErrInvalidCoordinate)
	_, ok := e.Selection()
	assert.False(t, ok)
}

func TestValidMoves(t *testing.T) {
	g := moveBoard()
	moves := ValidMoves(g)

	assert.Contains(t, moves, Move{A: C(1, 0), B: C(1, 1), Size: 3})
	assert.True(t, HasValidMove(g))
	assert.True(t, g.Equal(moveBoard()), "search must not change the board")

	stuck := GridFromRows([][]GemType{
		{1, 1},
		{1, 2},
	})
	assert.Empty(t, ValidMoves(stuck))
	assert.False(t, HasValidMove(stuck))
}

func TestShuffleKeepsBoardSettled(t *testing.T) {
	e, err := NewEngine(Config{Width: 6, Height: 6, GemTypes: 4, Seed: 99})
	require.NoError(t, err)
	q := &EventQueue{}
	e.Subscribe(q)

	require.NoError(t, e.Shuffle())
	assert.Equal(t, 36, countEvents[CellChanged](q.Drain()))

	g := e.Grid()
	for i := range g.Cells {
		require.False(t, HasMatchAt(g, C(i%g.W, i/g.W)))
	}

	e.Begin(C(0, 0), C(1, 0))
	if e.Busy() {
		assert.ErrorIs(t, e.Shuffle(), ErrIllegalMove)
	}
}

func TestSamePlain(t *testing.T) {
	plain := Gem(1)
	special := Tile{Type: 1, Effect: EffectClearRow}

	tests := []struct {
		name     string
		a, b     Tile
		plain    bool
		sameType bool
	}{
		{"plain pair", plain, Gem(1), true, true},
		{"different types", plain, Gem(2), false, false},
		{"plain and special", plain, special, false, true},
		{"special and plain", special, plain, false, true},
		{"special pair", special, special, false, true},
		{"empty pair", Tile{}, Tile{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.plain, tt.a.SamePlain(tt.b))
			assert.Equal(t, tt.sameType, tt.a.SameType(tt.b))
		})
	}
}

func TestSwapGroups(t *testing.T) {
	row := [][]GemType{{2, 3, 2}, {1, 1, 1}}
	withSpecial := func(c Coord) func(*Grid) {
		return func(g *Grid) {
			g.Set(c, Tile{Type: g.Get(c).Type, Effect: EffectClearRow})
		}
	}

	tests := []struct {
		name   string
		rows   [][]GemType
		modify func(*Grid)
		a, b   Coord
		want   [][]Coord
	}{
		{
			name: "same plain type evaluates a only",
			rows: row,
			a:    C(1, 0), b: C(2, 0),
			want: [][]Coord{{C(0, 0), C(1, 0), C(2, 0)}},
		},
		{
			name:   "special at a still joins the group",
			rows:   row,
			modify: withSpecial(C(1, 0)),
			a:      C(1, 0), b: C(2, 0),
			want: [][]Coord{{C(0, 0), C(1, 0), C(2, 0)}},
		},
		{
			name:   "special at b overlapping group is dropped",
			rows:   row,
			modify: withSpecial(C(2, 0)),
			a:      C(1, 0), b: C(2, 0),
			want: [][]Coord{{C(0, 0), C(1, 0), C(2, 0)}},
		},
		{
			name: "separate groups at a and b",
			rows: [][]GemType{{1, 2}, {1, 2}, {1, 2}},
			a:    C(0, 1), b: C(1, 1),
			want: [][]Coord{{C(0, 0), C(0, 1), C(0, 2)}, {C(1, 0), C(1, 1), C(1, 2)}},
		},
		{
			name: "no match",
			rows: [][]GemType{{1, 2}, {2, 1}},
			a:    C(0, 0), b: C(1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GridFromRows(tt.rows)
			if tt.modify != nil {
				tt.modify(g)
			}

			got := SwapGroups(g, tt.a, tt.b)

			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.ElementsMatch(t, tt.want[i], got[i])
			}
		})
	}
}
