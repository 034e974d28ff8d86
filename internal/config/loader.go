package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadGemcrush loads gemcrush configuration.
// Search order: customPath -> ~/.gemcrush/configs/gemcrush.yaml -> ./configs/gemcrush.yaml -> embedded default
func LoadGemcrush(customPath string) (GemcrushConfig, error) {
	var cfg GemcrushConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("gemcrush.yaml"); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", "gemcrush.yaml")); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultGemcrushYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultGemcrushConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Missing, unparsable or invalid
// files are skipped so the next search location is tried.
func tryLoad(path string) (GemcrushConfig, bool) {
	var cfg GemcrushConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if cfg.Validate() != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gemcrush", "configs", filename)
}

// ApplyPreset adjusts gem count and move limit for a difficulty preset.
// More gem types make matches rarer.
func ApplyPreset(cfg *GemcrushConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Rules.GemTypes = 4
		cfg.Rules.MoveLimit = 40
	case DifficultyNormal:
		cfg.Rules.GemTypes = 5
		cfg.Rules.MoveLimit = 30
	case DifficultyHard:
		cfg.Rules.GemTypes = 6
		cfg.Rules.MoveLimit = 20
	case DifficultyZen:
		cfg.Rules.GemTypes = 5
		cfg.Rules.MoveLimit = 0
	}
	if cfg.Rules.GemTypes > len(cfg.Gems) {
		cfg.Rules.GemTypes = len(cfg.Gems)
	}
}
