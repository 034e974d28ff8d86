package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatches(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]GemType
		origin Coord
		want   int
	}{
		{
			name:   "horizontal three",
			rows:   [][]GemType{{2, 3, 2}, {1, 1, 1}},
			origin: C(0, 0),
			want:   3,
		},
		{
			name:   "vertical three",
			rows:   [][]GemType{{1, 2}, {1, 3}, {1, 2}},
			origin: C(0, 1),
			want:   3,
		},
		{
			name:   "L-shaped three is not a match",
			rows:   [][]GemType{{1, 2}, {1, 1}},
			origin: C(0, 0),
			want:   0,
		},
		{
			name:   "pair",
			rows:   [][]GemType{{1, 1, 2}},
			origin: C(0, 0),
			want:   0,
		},
		{
			name:   "straight five",
			rows:   [][]GemType{{3, 3, 3, 3, 3}},
			origin: C(2, 0),
			want:   5,
		},
		{
			name:   "L-shaped four",
			rows:   [][]GemType{{2, 2, 1}, {1, 1, 1}},
			origin: C(0, 0),
			want:   4,
		},
		{
			name:   "empty origin",
			rows:   [][]GemType{{0, 1, 1, 1}},
			origin: C(0, 0),
			want:   0,
		},
		{
			name:   "out of range origin",
			rows:   [][]GemType{{1, 1, 1}},
			origin: C(3, 0),
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GridFromRows(tt.rows)
			got := FindMatches(g, tt.origin)
			assert.Len(t, got, tt.want)
			if tt.want > 0 {
				assert.Equal(t, tt.origin, got[0], "origin is visited first")
			}
		})
	}
}

func TestFindMatchesVisitationOrder(t *testing.T) {
	g := GridFromRows([][]GemType{{1, 1, 1}})

	assert.Equal(t, []Coord{C(1, 0), C(2, 0), C(0, 0)}, FindMatches(g, C(1, 0)))
}

func TestFindMatchesIgnoresEffects(t *testing.T) {
	g := GridFromRows([][]GemType{{1, 1, 1}})
	g.Set(C(2, 0), Tile{Type: 1, Effect: EffectClearRow})

	assert.Len(t, FindMatches(g, C(0, 0)), 3)
}

func TestFindAllDirtyMatches(t *testing.T) {
	g := GridFromRows([][]GemType{
		{2, 3, 2, 3},
		{3, 2, 3, 2},
		{1, 1, 1, 2},
	})
	// Column 3 holds 2,2,3 from the bottom: only a pair.
	dirty := []Coord{C(1, 0), C(0, 0), C(3, 0), C(2, 0), C(0, 2)}

	groups := FindAllDirtyMatches(g, dirty)

	require.Len(t, groups, 1)
	assert.Equal(t, []Coord{C(1, 0), C(2, 0), C(0, 0)}, groups[0])
}

func TestFindAllDirtyMatchesSeparateGroups(t *testing.T) {
	g := GridFromRows([][]GemType{
		{2, 2, 2, 3},
		{3, 4, 3, 1},
		{1, 1, 1, 3},
	})

	groups := FindAllDirtyMatches(g, []Coord{C(0, 2), C(2, 0), C(1, 2), C(3, 1)})

	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 3)
	assert.Equal(t, C(0, 2), groups[0][0])
	assert.Len(t, groups[1], 3)
	assert.Equal(t, C(2, 0), groups[1][0])
}

func TestFindAllDirtyMatchesNone(t *testing.T) {
	g := GridFromRows([][]GemType{{1, 2, 3}})

	assert.Empty(t, FindAllDirtyMatches(g, nil))
	assert.Empty(t, FindAllDirtyMatches(g, []Coord{C(0, 0), C(1, 0)}))
}

func TestPromotable(t *testing.T) {
	tests := []struct {
		name  string
		group []Coord
		want  bool
	}{
		{"L of four", []Coord{C(2, 0), C(1, 0), C(0, 0), C(2, 1)}, true},
		{"straight four", []Coord{C(0, 0), C(1, 0), C(2, 0), C(3, 0)}, false},
		{"vertical four", []Coord{C(0, 0), C(0, 1), C(0, 2), C(0, 3)}, false},
		{"five spanning three columns", []Coord{C(0, 0), C(1, 0), C(2, 0), C(1, 1), C(1, 2)}, false},
		{"square", []Coord{C(0, 0), C(1, 0), C(0, 1), C(1, 1)}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, promotable(tt.group), tt.name)
	}
}
