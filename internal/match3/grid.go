package match3

import "strings"

// Grid is the game board as a rectangular grid of tiles.
// Cells are stored in row-major order: index = y*W + x, row 0 at the bottom.
type Grid struct {
	W     int    // Width of the grid
	H     int    // Height of the grid
	Cells []Tile // Flat array of tiles, length W*H

	// onChange is called after every in-bounds Set.
	onChange func(c Coord, t Tile)
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{
		W:     w,
		H:     h,
		Cells: make([]Tile, w*h),
	}
}

// GridFromRows builds a grid from rows given top row first, the way a board
// reads on screen. Rows shorter than the first row are padded with empty cells.
func GridFromRows(rows [][]GemType) *Grid {
	if len(rows) == 0 {
		return NewGrid(0, 0)
	}
	h := len(rows)
	g := NewGrid(len(rows[0]), h)
	for i, row := range rows {
		y := h - 1 - i
		for x, t := range row {
			g.Set(C(x, y), Gem(t))
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.W }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.H }

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Y*g.W + c.X
}

// IsValid returns true if the coordinate is within the grid boundaries.
func (g *Grid) IsValid(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Get returns the tile at the given coordinate.
// Returns an empty tile if out of bounds.
func (g *Grid) Get(c Coord) Tile {
	if !g.IsValid(c) {
		return Tile{}
	}
	return g.Cells[g.index(c)]
}

// Set writes the tile at the given coordinate and notifies the change observer.
// Out-of-bounds writes are silently ignored.
func (g *Grid) Set(c Coord, t Tile) {
	if !g.IsValid(c) {
		return
	}
	g.Cells[g.index(c)] = t
	if g.onChange != nil {
		g.onChange(c, t)
	}
}

// Clear empties the cell at the given coordinate.
func (g *Grid) Clear(c Coord) {
	g.Set(c, Tile{})
}

// Swap exchanges the occupants of two cells.
func (g *Grid) Swap(a, b Coord) {
	ta, tb := g.Get(a), g.Get(b)
	g.Set(a, tb)
	g.Set(b, ta)
}

// Clone returns a deep copy of the grid without the change observer.
func (g *Grid) Clone() *Grid {
	cells := make([]Tile, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{
		W:     g.W,
		H:     g.H,
		Cells: cells,
	}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil {
		return false
	}
	if g.W != other.W || g.H != other.H {
		return false
	}
	for i, t := range g.Cells {
		if t != other.Cells[i] {
			return false
		}
	}
	return true
}

// FilledCount returns the number of occupied cells.
func (g *Grid) FilledCount() int {
	count := 0
	for _, t := range g.Cells {
		if !t.Empty() {
			count++
		}
	}
	return count
}

// EmptyCoords returns all empty cells, column by column from the bottom.
func (g *Grid) EmptyCoords() []Coord {
	var coords []Coord
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			c := C(x, y)
			if g.Get(c).Empty() {
				coords = append(coords, c)
			}
		}
	}
	return coords
}

// String renders the grid top row first. Gems are letters starting at 'a',
// special gems are upper case, empty cells are '.'.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.W + 1) * g.H)
	for y := g.H - 1; y >= 0; y-- {
		for x := 0; x < g.W; x++ {
			sb.WriteByte(tileLetter(g.Get(C(x, y))))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func tileLetter(t Tile) byte {
	if t.Empty() {
		return '.'
	}
	letter := byte('a' + int(t.Type-1)%26)
	if t.Special() {
		letter -= 'a' - 'A'
	}
	return letter
}
