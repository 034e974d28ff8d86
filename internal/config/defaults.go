package config

import (
	_ "embed"
)

//go:embed defaults/gemcrush.yaml
var defaultGemcrushYAML []byte

// DefaultGemcrushConfig returns the default gemcrush configuration.
func DefaultGemcrushConfig() GemcrushConfig {
	return GemcrushConfig{
		Board: BoardConfig{
			Width:  8,
			Height: 8,
		},
		Gems: []GemConfig{
			{Name: "ruby", Symbol: "●", Color: "bright-red"},
			{Name: "emerald", Symbol: "◆", Color: "bright-green"},
			{Name: "sapphire", Symbol: "■", Color: "bright-blue"},
			{Name: "topaz", Symbol: "▲", Color: "bright-yellow"},
			{Name: "amethyst", Symbol: "★", Color: "bright-magenta"},
			{Name: "pearl", Symbol: "○", Color: "bright-white"},
			{Name: "amber", Symbol: "♦", Color: "orange"},
		},
		Rules: RulesConfig{
			GemTypes:      5,
			PointsPerTile: 10,
			MoveLimit:     30,
		},
		Pacing: PacingConfig{
			StepTicks: 4,
		},
	}
}
