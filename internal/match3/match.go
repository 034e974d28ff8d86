package match3

// MinGroupSize is the smallest connected group that counts as a match.
const MinGroupSize = 3

// FindMatches flood-fills from origin over 4-connected cells of the same gem
// type and returns the group in visitation order, origin first.
// A group of exactly MinGroupSize must be straight (one row or one column);
// smaller groups never match. Empty or out-of-range origins return nil.
func FindMatches(g *Grid, origin Coord) []Coord {
	start := g.Get(origin)
	if !g.IsValid(origin) || start.Empty() {
		return nil
	}

	visited := map[Coord]bool{origin: true}
	queue := []Coord{origin}
	group := make([]Coord, 0, 8)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		group = append(group, cur)

		for _, n := range cur.Neighbors() {
			if visited[n] || !g.IsValid(n) {
				continue
			}
			if !g.Get(n).SameType(start) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}

	switch {
	case len(group) < MinGroupSize:
		return nil
	case len(group) == MinGroupSize && !collinear(group):
		return nil
	}
	return group
}

// collinear reports whether every coordinate shares an X or every coordinate shares a Y.
func collinear(group []Coord) bool {
	sameX, sameY := true, true
	for _, c := range group[1:] {
		if c.X != group[0].X {
			sameX = false
		}
		if c.Y != group[0].Y {
			sameY = false
		}
	}
	return sameX || sameY
}

// FindAllDirtyMatches scans every dirty coordinate in insertion order and
// returns the distinct match groups found. A coordinate claimed by an earlier
// group is never reported twice. An empty result means the board is settled.
func FindAllDirtyMatches(g *Grid, dirty []Coord) [][]Coord {
	claimed := make(map[Coord]bool)
	var groups [][]Coord

	for _, c := range dirty {
		if claimed[c] || g.Get(c).Empty() {
			continue
		}
		group := FindMatches(g, c)
		fresh := group[:0:0]
		for _, m := range group {
			if !claimed[m] {
				fresh = append(fresh, m)
			}
		}
		if len(fresh) == 0 {
			continue
		}
		for _, m := range fresh {
			claimed[m] = true
		}
		groups = append(groups, fresh)
	}
	return groups
}

// HasMatchAt reports whether the cell at c is part of a match.
func HasMatchAt(g *Grid, c Coord) bool {
	return len(FindMatches(g, c)) > 0
}

// distinctXs counts the distinct column indices of a group.
func distinctXs(group []Coord) int {
	xs := make(map[int]struct{}, len(group))
	for _, c := range group {
		xs[c.X] = struct{}{}
	}
	return len(xs)
}
