// Package config provides YAML-based game configuration loading and
// difficulty presets for gemcrush.
package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MinGemTypes and MaxGemTypes mirror the board engine's bounds on distinct gem types.
const (
	MinGemTypes = 3
	MaxGemTypes = 26
)

// GemcrushConfig contains all configuration for a gemcrush session.
type GemcrushConfig struct {
	Board  BoardConfig  `yaml:"board"`
	Gems   []GemConfig  `yaml:"gems"`
	Rules  RulesConfig  `yaml:"rules"`
	Pacing PacingConfig `yaml:"pacing"`
}

// BoardConfig defines board dimensions in cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GemConfig defines how one gem type is drawn.
// The palette order defines gem type numbers: the first entry is type 1.
type GemConfig struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
	Color  string `yaml:"color"`
}

// RulesConfig defines scoring and session limits.
type RulesConfig struct {
	GemTypes      int `yaml:"gem_types"`       // How many palette entries are in play
	PointsPerTile int `yaml:"points_per_tile"` // Base points per destroyed tile
	MoveLimit     int `yaml:"move_limit"`      // 0 = unlimited
}

// PacingConfig defines how fast a cascade plays back.
type PacingConfig struct {
	StepTicks int `yaml:"step_ticks"` // Ticks between resolution phases, 0 = instant
}

// Validate checks that the configuration can build a board.
func (c GemcrushConfig) Validate() error {
	var errs []error
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		errs = append(errs, fmt.Errorf("board must be at least 1x1, got %dx%d", c.Board.Width, c.Board.Height))
	}
	if c.Rules.GemTypes < MinGemTypes {
		errs = append(errs, fmt.Errorf("rules.gem_types must be at least %d, got %d", MinGemTypes, c.Rules.GemTypes))
	}
	if c.Rules.GemTypes > MaxGemTypes {
		errs = append(errs, fmt.Errorf("rules.gem_types must be at most %d, got %d", MaxGemTypes, c.Rules.GemTypes))
	}
	if c.Rules.GemTypes > len(c.Gems) {
		errs = append(errs, fmt.Errorf("rules.gem_types is %d but only %d gems are defined", c.Rules.GemTypes, len(c.Gems)))
	}
	if c.Rules.PointsPerTile < 0 {
		errs = append(errs, fmt.Errorf("rules.points_per_tile must not be negative"))
	}
	if c.Rules.MoveLimit < 0 {
		errs = append(errs, fmt.Errorf("rules.move_limit must not be negative"))
	}
	if c.Pacing.StepTicks < 0 {
		errs = append(errs, fmt.Errorf("pacing.step_ticks must not be negative"))
	}
	for i, g := range c.Gems {
		if utf8.RuneCountInString(g.Symbol) != 1 {
			errs = append(errs, fmt.Errorf("gems[%d] %q: symbol must be a single character", i, g.Name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid gemcrush config: %w", errors.Join(errs...))
	}
	return nil
}

// ActiveGems returns the palette entries in play.
func (c GemcrushConfig) ActiveGems() []GemConfig {
	n := min(c.Rules.GemTypes, len(c.Gems))
	return c.Gems[:n]
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyZen    DifficultyPreset = "zen"
)

// Presets lists the valid difficulty presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyZen}
}

// ParsePreset converts a flag value to a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	for _, p := range Presets() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (valid: easy, normal, hard, zen)", s)
}
