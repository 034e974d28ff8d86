package match3

// DirtySet is an insertion-ordered set of coordinates mutated since the last scan.
type DirtySet struct {
	order []Coord
	seen  map[Coord]struct{}
}

// NewDirtySet returns an empty dirty set.
func NewDirtySet() *DirtySet {
	return &DirtySet{seen: make(map[Coord]struct{})}
}

// Add marks c dirty. Adding an already dirty coordinate keeps its original position.
func (d *DirtySet) Add(c Coord) {
	if _, ok := d.seen[c]; ok {
		return
	}
	d.seen[c] = struct{}{}
	d.order = append(d.order, c)
}

// Contains reports whether c is dirty.
func (d *DirtySet) Contains(c Coord) bool {
	_, ok := d.seen[c]
	return ok
}

// Len returns the number of dirty coordinates.
func (d *DirtySet) Len() int {
	return len(d.order)
}

// Coords returns the dirty coordinates in insertion order.
func (d *DirtySet) Coords() []Coord {
	out := make([]Coord, len(d.order))
	copy(out, d.order)
	return out
}

// Clear empties the set.
func (d *DirtySet) Clear() {
	d.order = d.order[:0]
	clear(d.seen)
}
