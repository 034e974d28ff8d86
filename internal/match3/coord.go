package match3

import "fmt"

// Coord is a cell position on the board.
// X increases to the right, Y increases upward: Y=0 is the bottom row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Neighbors returns the four orthogonal neighbours in up, down, right, left order.
// Neighbours may lie outside the board.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{
		c.Add(0, 1),
		c.Add(0, -1),
		c.Add(1, 0),
		c.Add(-1, 0),
	}
}

// Adjacent reports whether other is one orthogonal step away.
func (c Coord) Adjacent(other Coord) bool {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}
