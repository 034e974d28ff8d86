// Package match3 implements the match-3 board simulation: the grid, match
// detection, the cascade state machine and seeded tile generation.
// This package is UI-agnostic and deterministic for a given seed.
package match3

// GemType identifies a gem kind. Valid types start at 1; NoGem marks an empty cell.
type GemType uint8

// NoGem is the zero GemType and means "no tile".
const NoGem GemType = 0

// Tile is the occupant of a cell: a gem type plus an optional special effect.
// The zero Tile is an empty cell.
type Tile struct {
	Type   GemType `json:"type"`
	Effect Effect  `json:"effect,omitempty"`
}

// Gem returns a plain tile of the given type.
func Gem(t GemType) Tile {
	return Tile{Type: t}
}

// Empty reports whether the tile represents an empty cell.
func (t Tile) Empty() bool {
	return t.Type == NoGem
}

// Special reports whether the tile carries an effect.
func (t Tile) Special() bool {
	return t.Effect != EffectNone
}

// SameType reports whether two occupied tiles have the same gem type.
// Effects are ignored; this is the comparison used by flood fill.
func (t Tile) SameType(other Tile) bool {
	return !t.Empty() && t.Type == other.Type
}

// SamePlain reports whether both tiles are plain gems of the same type.
// A tile carrying an effect never compares equal here.
func (t Tile) SamePlain(other Tile) bool {
	return t.SameType(other) && !t.Special() && !other.Special()
}
