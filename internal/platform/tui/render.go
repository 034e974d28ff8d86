package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gemcrush/internal/config"
	"github.com/vovakirdan/gemcrush/internal/core"
)

// ansiCodes maps board colors to ANSI 256-color codes.
var ansiCodes = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// gemColors are drawn bold so gems stand out from the frame and markers.
var gemColors = map[core.Color]bool{
	core.ColorBrightRed:     true,
	core.ColorBrightGreen:   true,
	core.ColorBrightBlue:    true,
	core.ColorBrightYellow:  true,
	core.ColorBrightMagenta: true,
	core.ColorBrightWhite:   true,
	core.ColorOrange:        true,
}

var colorStyles = buildStyles()

func buildStyles() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{core.ColorDefault: lipgloss.NewStyle()}
	for c, code := range ansiCodes {
		styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Bold(gemColors[c])
	}
	return styles
}

func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Runs of same-colored cells share one style to keep escape sequences short.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	run := make([]rune, 0, s.Width())
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run = run[:0]
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run = append(run, cell.Rune)
			}
			sb.WriteString(styleFor(color).Render(string(run)))
		}
	}
	return sb.String()
}

// gemBanner colors each non-space rune of text with the next gem of the
// palette, cycling. Unknown gem colors fall back to the default style.
func gemBanner(gems []config.GemConfig, text string) string {
	if len(gems) == 0 {
		return text
	}
	var sb strings.Builder
	i := 0
	for _, r := range text {
		if r == ' ' {
			sb.WriteRune(r)
			continue
		}
		color, _ := core.ParseColor(gems[i%len(gems)].Color)
		sb.WriteString(styleFor(color).Render(string(r)))
		i++
	}
	return sb.String()
}
