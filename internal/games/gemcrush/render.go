package gemcrush

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/gemcrush/internal/core"
	"github.com/vovakirdan/gemcrush/internal/match3"
)

const (
	cellWidth = 3 // Columns per board cell: marker, gem, marker
	hudHeight = 3

	specialRune = '✦'
	burstRune   = '✶'
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW := g.cfg.Board.Width*cellWidth + 2
	boardH := g.cfg.Board.Height + 2
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight

	g.renderHUD(dst, boardX, boardW)
	g.renderBoard(dst, boardX, boardY)
	g.renderFooter(dst, boardY+boardH)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the title, score and remaining moves.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	dst.DrawTextCenteredColor(0, g.Title(), core.ColorBrightMagenta)

	state := g.State()
	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", state.Score))

	var info string
	if state.MovesLeft >= 0 {
		info = fmt.Sprintf("Moves: %d", state.MovesLeft)
	} else {
		info = fmt.Sprintf("Moves: %d", state.Moves)
	}
	infoX := core.Max(boardX+boardW-len(info), boardX)
	color := core.ColorDefault
	if state.MovesLeft >= 0 && state.MovesLeft <= 3 {
		color = core.ColorBrightRed
	}
	dst.DrawTextColor(infoX, 1, info, color)

	if state.MaxCascade > 1 {
		dst.DrawTextCenteredColor(2, fmt.Sprintf("Best cascade: x%d", state.MaxCascade), core.ColorGray)
	}
}

// renderBoard draws the frame, gems, cursor, selection and hint markers.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	w, h := g.cfg.Board.Width, g.cfg.Board.Height
	frameColor := core.ColorGray
	if g.engine.Busy() {
		frameColor = core.ColorCyan
	}
	dst.DrawBox(core.NewRect(boardX, boardY, w*cellWidth+2, h+2), frameColor)

	bursts := make(map[match3.Coord]bool, len(g.bursts))
	for _, c := range g.bursts {
		bursts[c] = true
	}
	sel, selected := g.engine.Selection()

	for y := 0; y < h; y++ {
		// Row h-1 is drawn at the top.
		py := boardY + 1 + (h - 1 - y)
		for x := 0; x < w; x++ {
			c := match3.C(x, y)
			px := boardX + 1 + x*cellWidth

			tile := g.engine.Tile(c)
			switch {
			case !tile.Empty():
				r, color := g.gemGlyph(tile)
				dst.SetColor(px+1, py, r, color)
			case bursts[c]:
				dst.SetColor(px+1, py, burstRune, core.ColorBrightYellow)
			}

			switch {
			case selected && sel == c:
				dst.SetColor(px, py, '<', core.ColorBrightWhite)
				dst.SetColor(px+2, py, '>', core.ColorBrightWhite)
			case g.cursor == c && !g.gameOver:
				dst.SetColor(px, py, '[', core.ColorBrightWhite)
				dst.SetColor(px+2, py, ']', core.ColorBrightWhite)
			case g.hint != nil && (g.hint.A == c || g.hint.B == c):
				dst.SetColor(px, py, '›', core.ColorYellow)
				dst.SetColor(px+2, py, '‹', core.ColorYellow)
			}
		}
	}
}

// gemGlyph returns the rune and color for a tile.
func (g *Game) gemGlyph(t match3.Tile) (rune, core.Color) {
	idx := int(t.Type) - 1
	if idx < 0 || idx >= len(g.cfg.Gems) {
		return '?', core.ColorDefault
	}
	gem := g.cfg.Gems[idx]
	color, _ := core.ParseColor(gem.Color)
	if t.Special() {
		return specialRune, color
	}
	r, _ := utf8.DecodeRuneInString(gem.Symbol)
	if r == utf8.RuneError {
		return '?', color
	}
	return r, color
}

// renderFooter draws the status message or key help below the board.
func (g *Game) renderFooter(dst *core.Screen, y int) {
	if g.message != "" {
		dst.DrawTextCenteredColor(y, g.message, core.ColorBrightYellow)
		return
	}
	if g.lastMove.Outcome == match3.OutcomeResolved && g.lastMove.Points > 0 {
		dst.DrawTextCenteredColor(y, fmt.Sprintf("+%d", g.lastMove.Points), core.ColorBrightGreen)
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.gameOver {
		stats := g.engine.Stats()
		g.drawOverlay(dst, centerX, centerY,
			"OUT OF MOVES",
			fmt.Sprintf("Score: %d", stats.Score),
			fmt.Sprintf("Best cascade: x%d", stats.MaxDepth),
			"Press R to restart")
	}
}

// drawOverlay draws a centered boxed text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = core.Max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect(centerX-boxW/2, centerY-boxH/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorBrightWhite)
	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawText(x, box.Y+1+i, line)
	}
}
