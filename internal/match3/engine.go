package match3

import "fmt"

// MinGemTypes is the smallest gem set that guarantees a match-free initial fill.
const MinGemTypes = 3

// MaxGemTypes is the largest gem set; each type prints as its own letter in Grid.String.
const MaxGemTypes = 26

// DefaultPointsPerTile is used when Config.PointsPerTile is zero.
const DefaultPointsPerTile = 10

// Config describes a board to initialize.
type Config struct {
	Width         int
	Height        int
	GemTypes      int
	Seed          uint64
	PointsPerTile int
}

// Outcome classifies what a move or tap did.
type Outcome int

const (
	OutcomeNone       Outcome = iota
	OutcomeSelected           // Tap selected a cell
	OutcomeDeselected         // Tap cleared the selection
	OutcomeRejected           // Refused without touching the board
	OutcomePending            // Accepted, resolution in progress
	OutcomeReverted           // Swapped, no match, swapped back
	OutcomeResolved           // Matched and cascaded to idle
)

// String returns the string representation of an outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSelected:
		return "selected"
	case OutcomeDeselected:
		return "deselected"
	case OutcomeRejected:
		return "rejected"
	case OutcomePending:
		return "pending"
	case OutcomeReverted:
		return "reverted"
	case OutcomeResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// MoveResult reports what happened to a move.
type MoveResult struct {
	A       Coord
	B       Coord
	Outcome Outcome
	Reason  error // set when Outcome is OutcomeRejected

	Groups     [][]Coord // groups found by the player's swap
	Destroyed  int
	Promotions int
	Depth      int // number of evaluations that found groups
	Points     int
}

// Accepted reports whether the move was taken by the engine.
func (r MoveResult) Accepted() bool {
	return r.Outcome == OutcomePending || r.Outcome == OutcomeReverted || r.Outcome == OutcomeResolved
}

// Stats accumulates results over a session.
type Stats struct {
	Moves      int `json:"moves"`
	Reverted   int `json:"reverted"`
	Score      int `json:"score"`
	Destroyed  int `json:"destroyed"`
	Promotions int `json:"promotions"`
	MaxDepth   int `json:"max_depth"`
}

type queuedEffect struct {
	at     Coord
	effect Effect
}

// Engine owns a board and resolves moves on it one phase at a time.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg       Config
	grid      *Grid
	dirty     *DirtySet
	gen       *Generator
	listeners []Listener

	phase     Phase
	busy      bool
	selection Coord
	selected  bool

	// in-flight move
	move    MoveResult
	groups  [][]Coord
	initial bool
	effects []queuedEffect

	last  MoveResult
	stats Stats
}

// NewEngine creates an engine and fills its board.
func NewEngine(cfg Config) (*Engine, error) {
	e := &Engine{}
	if err := e.Initialize(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Initialize discards the current board and builds a new match-free one
// from cfg. Listeners stay subscribed.
func (e *Engine) Initialize(cfg Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("initialize %dx%d: %w", cfg.Width, cfg.Height, ErrEmptyGrid)
	}
	if cfg.GemTypes < MinGemTypes {
		return fmt.Errorf("initialize with %d types, need %d: %w", cfg.GemTypes, MinGemTypes, ErrTooFewGemTypes)
	}
	if cfg.GemTypes > MaxGemTypes {
		return fmt.Errorf("initialize with %d types, at most %d: %w", cfg.GemTypes, MaxGemTypes, ErrTooManyGemTypes)
	}
	if cfg.PointsPerTile <= 0 {
		cfg.PointsPerTile = DefaultPointsPerTile
	}

	e.cfg = cfg
	e.gen = NewGenerator(cfg.Seed, cfg.GemTypes)
	e.grid = NewGrid(cfg.Width, cfg.Height)
	e.gen.Fill(e.grid)
	e.grid.onChange = e.cellChanged
	e.dirty = NewDirtySet()

	e.phase = PhaseIdle
	e.busy = false
	e.selected = false
	e.move = MoveResult{}
	e.groups = nil
	e.effects = nil
	e.last = MoveResult{}
	e.stats = Stats{}
	return nil
}

// Subscribe registers a listener for all subsequent events.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l.OnEvent(ev)
	}
}

func (e *Engine) cellChanged(c Coord, t Tile) {
	e.emit(CellChanged{At: c, Tile: t})
}

// Config returns the configuration the board was built from.
func (e *Engine) Config() Config { return e.cfg }

// Tile returns the tile at c, or an empty tile when c is empty or off the board.
func (e *Engine) Tile(c Coord) Tile { return e.grid.Get(c) }

// Grid returns a copy of the board.
func (e *Engine) Grid() *Grid { return e.grid.Clone() }

// Selection returns the selected cell, if any.
func (e *Engine) Selection() (Coord, bool) { return e.selection, e.selected }

// Phase returns the current resolution phase.
func (e *Engine) Phase() Phase { return e.phase }

// Busy reports whether a move is being resolved.
func (e *Engine) Busy() bool { return e.busy }

// Stats returns the accumulated session statistics.
func (e *Engine) Stats() Stats { return e.stats }

// LastResult returns the result of the most recently finished move.
func (e *Engine) LastResult() MoveResult { return e.last }

// validate checks a move against the current state without changing it.
func (e *Engine) validate(a, b Coord) error {
	if e.busy {
		return ErrIllegalMove
	}
	if !e.grid.IsValid(a) || !e.grid.IsValid(b) || e.grid.Get(a).Empty() || e.grid.Get(b).Empty() {
		return ErrInvalidCoordinate
	}
	if !a.Adjacent(b) {
		return ErrIllegalMove
	}
	return nil
}

func (e *Engine) reject(a, b Coord, reason error) MoveResult {
	e.emit(MoveRejected{A: a, B: b, Reason: reason})
	return MoveResult{A: a, B: b, Outcome: OutcomeRejected, Reason: reason}
}

// AttemptMove swaps a and b and resolves the whole cascade before returning.
func (e *Engine) AttemptMove(a, b Coord) MoveResult {
	res := e.Begin(a, b)
	if res.Outcome != OutcomePending {
		return res
	}
	return e.Resolve()
}

// Begin accepts a move without resolving it. Call Advance or Resolve to progress.
func (e *Engine) Begin(a, b Coord) MoveResult {
	if err := e.validate(a, b); err != nil {
		return e.reject(a, b, err)
	}

	e.clearSelection()
	e.busy = true
	e.phase = PhaseSwapping
	e.dirty.Clear()
	e.move = MoveResult{A: a, B: b, Outcome: OutcomePending}
	e.groups = nil
	e.effects = nil
	return e.move
}

// Resolve advances until the engine is idle and returns the finished move.
// When already idle it returns the last result and changes nothing.
func (e *Engine) Resolve() MoveResult {
	for e.phase != PhaseIdle {
		e.Advance()
	}
	return e.last
}

// Advance runs exactly one phase step and returns the phase that follows.
// It does nothing when idle.
func (e *Engine) Advance() Phase {
	switch e.phase {
	case PhaseSwapping:
		e.grid.Swap(e.move.A, e.move.B)
		e.initial = true
		e.phase = PhaseEvaluating

	case PhaseEvaluating:
		if e.initial {
			e.evaluateSwap()
		} else {
			e.evaluateDirty()
		}

	case PhaseExploding:
		e.explode()
		e.phase = PhaseFalling

	case PhaseFalling:
		e.fall()
		e.phase = PhaseRefilling

	case PhaseRefilling:
		e.refill()
		e.initial = false
		e.phase = PhaseEvaluating
	}
	return e.phase
}

// SwapGroups returns the groups a swap of a and b produces on g, which must
// already hold the swapped tiles. The group at b is skipped when both cells
// hold the same plain type, and dropped when it overlaps the group at a.
func SwapGroups(g *Grid, a, b Coord) [][]Coord {
	var groups [][]Coord
	ga := FindMatches(g, a)
	if len(ga) > 0 {
		groups = append(groups, ga)
	}
	if g.Get(a).SamePlain(g.Get(b)) {
		return groups
	}
	gb := FindMatches(g, b)
	if len(gb) == 0 || overlaps(ga, gb) {
		return groups
	}
	return append(groups, gb)
}

func overlaps(a, b []Coord) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[Coord]struct{}, len(a))
	for _, c := range a {
		set[c] = struct{}{}
	}
	for _, c := range b {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}

func (e *Engine) evaluateSwap() {
	groups := SwapGroups(e.grid, e.move.A, e.move.B)
	if len(groups) == 0 {
		e.grid.Swap(e.move.A, e.move.B)
		e.emit(NoMatch{})
		e.finish(OutcomeReverted)
		return
	}
	e.move.Groups = groups
	e.startExplosion(groups)
}

func (e *Engine) evaluateDirty() {
	groups := FindAllDirtyMatches(e.grid, e.dirty.Coords())
	e.dirty.Clear()
	if len(groups) == 0 {
		e.emit(CascadeComplete{Depth: e.move.Depth})
		e.finish(OutcomeResolved)
		return
	}
	e.startExplosion(groups)
}

func (e *Engine) startExplosion(groups [][]Coord) {
	e.move.Depth++
	e.groups = groups
	e.emit(MatchFound{Groups: groups, Depth: e.move.Depth})
	e.phase = PhaseExploding
}

func (e *Engine) finish(outcome Outcome) {
	e.move.Outcome = outcome
	e.busy = false
	e.phase = PhaseIdle
	e.groups = nil

	e.stats.Moves++
	if outcome == OutcomeReverted {
		e.stats.Reverted++
	}
	e.stats.Score += e.move.Points
	e.stats.Destroyed += e.move.Destroyed
	e.stats.Promotions += e.move.Promotions
	if e.move.Depth > e.stats.MaxDepth {
		e.stats.MaxDepth = e.move.Depth
	}
	e.last = e.move
}

// explode walks the groups round-robin: index 0 of every group, then index 1, and so on.
func (e *Engine) explode() {
	longest := 0
	for _, g := range e.groups {
		longest = max(longest, len(g))
	}
	for i := 0; i < longest; i++ {
		for _, group := range e.groups {
			if i >= len(group) {
				continue
			}
			c := group[i]
			if i == 0 && promotable(group) && !e.grid.Get(c).Empty() {
				e.promote(c)
				continue
			}
			e.destroy(c)
			e.runEffects()
		}
	}
}

// promotable reports whether a group earns its anchor a row-clear effect.
func promotable(group []Coord) bool {
	return len(group) == 4 && distinctXs(group) == 3
}

func (e *Engine) promote(c Coord) {
	t := e.grid.Get(c)
	t.Effect = EffectClearRow
	e.grid.Set(c, t)
	e.move.Promotions++
	e.emit(TilePromoted{At: c, Effect: t.Effect})
}

func (e *Engine) destroy(c Coord) {
	t := e.grid.Get(c)
	if t.Empty() {
		return
	}
	e.grid.Clear(c)
	e.dirty.Add(c)
	e.move.Destroyed++
	e.move.Points += e.cfg.PointsPerTile * e.move.Depth
	e.emit(TileDestroyed{At: c, Tile: t})
	if t.Special() {
		e.effects = append(e.effects, queuedEffect{at: c, effect: t.Effect})
	}
}

func (e *Engine) runEffects() {
	for len(e.effects) > 0 {
		fx := e.effects[0]
		e.effects = e.effects[1:]
		e.emit(EffectTriggered{At: fx.at, Effect: fx.effect})
		for _, c := range effectTargets(e.grid, fx.effect, fx.at) {
			e.destroy(c)
		}
	}
}

// fall compacts every column toward Y=0, keeping tile order.
func (e *Engine) fall() {
	for x := 0; x < e.grid.W; x++ {
		for y := 0; y < e.grid.H; y++ {
			dst := C(x, y)
			if !e.grid.Get(dst).Empty() {
				continue
			}
			for above := y + 1; above < e.grid.H; above++ {
				src := C(x, above)
				t := e.grid.Get(src)
				if t.Empty() {
					continue
				}
				e.grid.Set(dst, t)
				e.grid.Clear(src)
				e.dirty.Add(dst)
				e.emit(TileFell{X: x, FromY: above, ToY: y})
				break
			}
		}
	}
}

func (e *Engine) refill() {
	for x := 0; x < e.grid.W; x++ {
		for y := 0; y < e.grid.H; y++ {
			c := C(x, y)
			if !e.grid.Get(c).Empty() {
				continue
			}
			t := e.gen.Next()
			e.grid.Set(c, Gem(t))
			e.dirty.Add(c)
			e.emit(TileSpawned{At: c, Type: t})
		}
	}
}

// Tap handles a cell press: the first tap selects, a tap on an adjacent cell
// starts a move, any other tap clears the selection.
func (e *Engine) Tap(c Coord) MoveResult {
	if e.busy {
		return e.reject(c, c, ErrIllegalMove)
	}
	if !e.grid.IsValid(c) || e.grid.Get(c).Empty() {
		return e.reject(c, c, ErrInvalidCoordinate)
	}
	if !e.selected {
		e.selection = c
		e.selected = true
		e.emit(Selected{At: c})
		return MoveResult{A: c, B: c, Outcome: OutcomeSelected}
	}

	sel := e.selection
	switch {
	case sel == c:
		e.clearSelection()
		return MoveResult{A: c, B: c, Outcome: OutcomeDeselected}
	case !sel.Adjacent(c):
		e.clearSelection()
		e.emit(NoMatch{})
		return MoveResult{A: sel, B: c, Outcome: OutcomeRejected, Reason: ErrIllegalMove}
	default:
		return e.Begin(sel, c)
	}
}

func (e *Engine) clearSelection() {
	if !e.selected {
		return
	}
	e.selected = false
	e.emit(Deselected{At: e.selection})
}

// Shuffle replaces the board with a new match-free fill from the session
// generator. It is refused while a move is resolving.
func (e *Engine) Shuffle() error {
	if e.busy {
		return ErrIllegalMove
	}
	e.clearSelection()
	e.grid.onChange = nil
	for i := range e.grid.Cells {
		e.grid.Cells[i] = Tile{}
	}
	e.gen.Fill(e.grid)
	e.grid.onChange = e.cellChanged
	for x := 0; x < e.grid.W; x++ {
		for y := 0; y < e.grid.H; y++ {
			c := C(x, y)
			e.emit(CellChanged{At: c, Tile: e.grid.Get(c)})
		}
	}
	return nil
}

// Move is a candidate swap and the number of tiles it would match.
type Move struct {
	A    Coord `json:"a"`
	B    Coord `json:"b"`
	Size int   `json:"size"`
}

// ValidMoves lists every adjacent swap on g that produces at least one match,
// scanning columns left to right and rows bottom to top, right neighbour before up.
func ValidMoves(g *Grid) []Move {
	work := g.Clone()
	var moves []Move
	for x := 0; x < work.W; x++ {
		for y := 0; y < work.H; y++ {
			a := C(x, y)
			for _, b := range [2]Coord{a.Add(1, 0), a.Add(0, 1)} {
				if size := swapSize(work, a, b); size > 0 {
					moves = append(moves, Move{A: a, B: b, Size: size})
				}
			}
		}
	}
	return moves
}

// HasValidMove reports whether any swap on g produces a match.
func HasValidMove(g *Grid) bool {
	work := g.Clone()
	for x := 0; x < work.W; x++ {
		for y := 0; y < work.H; y++ {
			a := C(x, y)
			if swapSize(work, a, a.Add(1, 0)) > 0 || swapSize(work, a, a.Add(0, 1)) > 0 {
				return true
			}
		}
	}
	return false
}

// swapSize tries the swap on g, counts matched tiles and restores g.
func swapSize(g *Grid, a, b Coord) int {
	if !g.IsValid(a) || !g.IsValid(b) || g.Get(a).Empty() || g.Get(b).Empty() {
		return 0
	}
	g.Swap(a, b)
	size := 0
	for _, group := range SwapGroups(g, a, b) {
		size += len(group)
	}
	g.Swap(a, b)
	return size
}
