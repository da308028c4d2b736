// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Sound    SoundConfig    `toml:"sound"`
	Theme    ThemeConfig    `toml:"theme"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	User       *string `toml:"user"`
	Difficulty *string `toml:"difficulty"`
	Duration   *int    `toml:"duration"`
	Mode       *string `toml:"mode"`
	Lesson     *string `toml:"lesson"`
	Level      *int    `toml:"level"`
	Sentences  *string `toml:"sentences"`
}

// SoundConfig maps audio feedback settings.
type SoundConfig struct {
	Enabled    *bool    `toml:"enabled"`
	Keystrokes *bool    `toml:"keystrokes"`
	Volume     *float64 `toml:"volume"`
}

// ThemeConfig maps theme settings. Custom is used when Name is "custom".
type ThemeConfig struct {
	Name         *string        `toml:"name"`
	HighContrast *bool          `toml:"high-contrast"`
	Custom       *PaletteConfig `toml:"custom"`
}

// PaletteConfig holds hex colors of a custom palette. Unset colors fall back
// to the dark palette.
type PaletteConfig struct {
	Foreground string `toml:"foreground"`
	Accent     string `toml:"accent"`
	Correct    string `toml:"correct"`
	Incorrect  string `toml:"incorrect"`
	Current    string `toml:"current"`
	Remaining  string `toml:"remaining"`
	Border     string `toml:"border"`
	Success    string `toml:"success"`
	Warning    string `toml:"warning"`
	Error      string `toml:"error"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
