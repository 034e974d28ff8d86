package httpapi

import (
	"errors"
	"strings"

	"github.com/vovakirdan/gemcrush/internal/match3"
)

type createRequest struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Gems          int     `json:"gems"`
	Seed          *uint64 `json:"seed"` // nil = random
	PointsPerTile int     `json:"points_per_tile"`
}

type moveRequest struct {
	A *match3.Coord `json:"a"`
	B *match3.Coord `json:"b"`
}

type tapRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type tileDTO struct {
	Type   int    `json:"type"`
	Effect string `json:"effect,omitempty"`
}

type boardDTO struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Tiles  [][]tileDTO `json:"tiles"` // tiles[y][x], y=0 is the bottom row
	Text   []string    `json:"text"`  // top row first
}

type sessionDTO struct {
	ID        string        `json:"id"`
	Phase     string        `json:"phase"`
	Busy      bool          `json:"busy"`
	Selection *match3.Coord `json:"selection,omitempty"`
	Stats     match3.Stats  `json:"stats"`
	Board     boardDTO      `json:"board"`
}

type resultDTO struct {
	Outcome    string           `json:"outcome"`
	A          match3.Coord     `json:"a"`
	B          match3.Coord     `json:"b"`
	Reason     string           `json:"reason,omitempty"`
	Groups     [][]match3.Coord `json:"groups,omitempty"`
	Destroyed  int              `json:"destroyed"`
	Promotions int              `json:"promotions"`
	Depth      int              `json:"depth"`
	Points     int              `json:"points"`
}

type eventDTO struct {
	Type   string           `json:"type"`
	Text   string           `json:"text"`
	At     *match3.Coord    `json:"at,omitempty"`
	A      *match3.Coord    `json:"a,omitempty"`
	B      *match3.Coord    `json:"b,omitempty"`
	Groups [][]match3.Coord `json:"groups,omitempty"`
	Depth  int              `json:"depth,omitempty"`
	Effect string           `json:"effect,omitempty"`
	Gem    int              `json:"gem,omitempty"`
	X      *int             `json:"x,omitempty"`
	FromY  *int             `json:"from_y,omitempty"`
	ToY    *int             `json:"to_y,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

type moveResponse struct {
	Result  resultDTO  `json:"result"`
	Events  []eventDTO `json:"events"`
	Session sessionDTO `json:"session"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func newBoardDTO(g *match3.Grid) boardDTO {
	b := boardDTO{
		Width:  g.Width(),
		Height: g.Height(),
		Tiles:  make([][]tileDTO, g.Height()),
		Text:   strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n"),
	}
	for y := range g.Height() {
		row := make([]tileDTO, g.Width())
		for x := range g.Width() {
			t := g.Get(match3.C(x, y))
			row[x] = tileDTO{Type: int(t.Type)}
			if t.Special() {
				row[x].Effect = t.Effect.String()
			}
		}
		b.Tiles[y] = row
	}
	return b
}

func newSessionDTO(s *Session) sessionDTO {
	e := s.Engine
	dto := sessionDTO{
		ID:    s.ID,
		Phase: e.Phase().String(),
		Busy:  e.Busy(),
		Stats: e.Stats(),
		Board: newBoardDTO(e.Grid()),
	}
	if c, ok := e.Selection(); ok {
		dto.Selection = &c
	}
	return dto
}

func newResultDTO(r match3.MoveResult) resultDTO {
	dto := resultDTO{
		Outcome:    r.Outcome.String(),
		A:          r.A,
		B:          r.B,
		Groups:     r.Groups,
		Destroyed:  r.Destroyed,
		Promotions: r.Promotions,
		Depth:      r.Depth,
		Points:     r.Points,
	}
	if r.Reason != nil {
		dto.Reason = r.Reason.Error()
	}
	return dto
}

func coordPtr(c match3.Coord) *match3.Coord { return &c }

func intPtr(v int) *int { return &v }

func newEventDTO(ev match3.Event) eventDTO {
	dto := eventDTO{Text: match3.Describe(ev)}
	switch e := ev.(type) {
	case match3.CellChanged:
		dto.Type = "cell_changed"
		dto.At = coordPtr(e.At)
		dto.Gem = int(e.Tile.Type)
	case match3.MatchFound:
		dto.Type = "match_found"
		dto.Groups = e.Groups
		dto.Depth = e.Depth
	case match3.NoMatch:
		dto.Type = "no_match"
	case match3.TileDestroyed:
		dto.Type = "tile_destroyed"
		dto.At = coordPtr(e.At)
		dto.Gem = int(e.Tile.Type)
	case match3.TilePromoted:
		dto.Type = "tile_promoted"
		dto.At = coordPtr(e.At)
		dto.Effect = e.Effect.String()
	case match3.EffectTriggered:
		dto.Type = "effect_triggered"
		dto.At = coordPtr(e.At)
		dto.Effect = e.Effect.String()
	case match3.TileFell:
		dto.Type = "tile_fell"
		dto.X = intPtr(e.X)
		dto.FromY = intPtr(e.FromY)
		dto.ToY = intPtr(e.ToY)
	case match3.TileSpawned:
		dto.Type = "tile_spawned"
		dto.At = coordPtr(e.At)
		dto.Gem = int(e.Type)
	case match3.CascadeComplete:
		dto.Type = "cascade_complete"
		dto.Depth = e.Depth
	case match3.Selected:
		dto.Type = "selected"
		dto.At = coordPtr(e.At)
	case match3.Deselected:
		dto.Type = "deselected"
		dto.At = coordPtr(e.At)
	case match3.MoveRejected:
		dto.Type = "move_rejected"
		dto.A = coordPtr(e.A)
		dto.B = coordPtr(e.B)
		if e.Reason != nil {
			dto.Reason = e.Reason.Error()
		}
	default:
		dto.Type = "unknown"
	}
	return dto
}

func newEventDTOs(events []match3.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, newEventDTO(ev))
	}
	return out
}

var errBadBody = errors.New("httpapi: malformed request body")
