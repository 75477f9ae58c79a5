package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const eggFile = "egg.yaml"

// LoadEgg loads the simulator configuration.
// Search order: customPath -> ~/.eggbalance/configs/egg.yaml -> ./configs/egg.yaml -> embedded default
//
// Files are decoded over the defaults, so a file only needs the keys it changes.
func LoadEgg(customPath string) (EggConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return EggConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseEgg(data)
		if err != nil {
			return EggConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(eggFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseEgg(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", eggFile)); err == nil {
		if cfg, err := ParseEgg(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := ParseEgg(defaultEggYAML)
	if err != nil {
		return DefaultEggConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseEgg decodes YAML over DefaultEggConfig and validates the result.
func ParseEgg(data []byte) (EggConfig, error) {
	cfg := DefaultEggConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EggConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return EggConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".eggbalance", "configs", filename)
}
