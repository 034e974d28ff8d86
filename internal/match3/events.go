package match3

import "fmt"

// Event is a notification emitted by the engine while it resolves a move.
// The set of events is closed; presentation layers switch on the concrete type.
type Event interface {
	event()
}

// CellChanged is emitted after every in-bounds grid write.
type CellChanged struct {
	At   Coord
	Tile Tile
}

func (CellChanged) event() {}

// MatchFound is emitted when an evaluation finds at least one group.
type MatchFound struct {
	Groups [][]Coord
	Depth  int
}

func (MatchFound) event() {}

// NoMatch is emitted when a swap is reverted or a tap pair is not adjacent.
type NoMatch struct{}

func (NoMatch) event() {}

// TileDestroyed is emitted when a tile is removed from the board.
type TileDestroyed struct {
	At   Coord
	Tile Tile
}

func (TileDestroyed) event() {}

// TilePromoted is emitted when a group anchor gains an effect instead of being destroyed.
type TilePromoted struct {
	At     Coord
	Effect Effect
}

func (TilePromoted) event() {}

// EffectTriggered is emitted when a destroyed tile's effect starts running.
type EffectTriggered struct {
	At     Coord
	Effect Effect
}

func (EffectTriggered) event() {}

// TileFell is emitted when gravity moves a tile down its column.
type TileFell struct {
	X     int
	FromY int
	ToY   int
}

func (TileFell) event() {}

// TileSpawned is emitted when a refill places a new tile.
type TileSpawned struct {
	At   Coord
	Type GemType
}

func (TileSpawned) event() {}

// CascadeComplete is emitted when resolution returns to idle after a matched move.
type CascadeComplete struct {
	Depth int
}

func (CascadeComplete) event() {}

// Selected is emitted when a tap selects a cell.
type Selected struct {
	At Coord
}

func (Selected) event() {}

// Deselected is emitted when the selection is cleared.
type Deselected struct {
	At Coord
}

func (Deselected) event() {}

// MoveRejected is emitted when a move or tap is refused without touching the board.
type MoveRejected struct {
	A      Coord
	B      Coord
	Reason error
}

func (MoveRejected) event() {}

// Describe returns a short human-readable form of an event.
func Describe(ev Event) string {
	switch e := ev.(type) {
	case CellChanged:
		return fmt.Sprintf("cell %s = %s", e.At, string(tileLetter(e.Tile)))
	case MatchFound:
		return fmt.Sprintf("match depth=%d groups=%d", e.Depth, len(e.Groups))
	case NoMatch:
		return "no match"
	case TileDestroyed:
		return fmt.Sprintf("destroyed %s", e.At)
	case TilePromoted:
		return fmt.Sprintf("promoted %s to %s", e.At, e.Effect)
	case EffectTriggered:
		return fmt.Sprintf("effect %s at %s", e.Effect, e.At)
	case TileFell:
		return fmt.Sprintf("fell x=%d %d->%d", e.X, e.FromY, e.ToY)
	case TileSpawned:
		return fmt.Sprintf("spawned %s type=%d", e.At, e.Type)
	case CascadeComplete:
		return fmt.Sprintf("cascade complete depth=%d", e.Depth)
	case Selected:
		return fmt.Sprintf("selected %s", e.At)
	case Deselected:
		return fmt.Sprintf("deselected %s", e.At)
	case MoveRejected:
		return fmt.Sprintf("rejected %s->%s: %v", e.A, e.B, e.Reason)
	default:
		return "unknown event"
	}
}

// Listener receives engine events synchronously, in emission order.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// OnEvent calls f(ev).
func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

// EventQueue buffers events for a consumer that polls, such as a render loop.
type EventQueue struct {
	events []Event
	// SkipCellChanges drops CellChanged events, which dominate the stream.
	SkipCellChanges bool
}

// OnEvent appends ev to the queue.
func (q *EventQueue) OnEvent(ev Event) {
	if _, ok := ev.(CellChanged); ok && q.SkipCellChanges {
		return
	}
	q.events = append(q.events, ev)
}

// Len returns the number of buffered events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Drain returns all buffered events and empties the queue.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}
