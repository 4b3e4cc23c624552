// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: User defaults from the config file and PERISCOPE_* env.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Defaults holds the user's session defaults. Explicit command-line
// flags overlay whatever comes out of here.
type Defaults struct {
	Interval    float64 `mapstructure:"interval"`
	Precise     bool    `mapstructure:"precise"`
	Differences string  `mapstructure:"differences"`
	Beep        bool    `mapstructure:"beep"`
	ErrExit     bool    `mapstructure:"errexit"`
	NoTitle     bool    `mapstructure:"no_title"`
	LogFile     string  `mapstructure:"log_file"`
}

// DefaultPath returns the standard config file location,
// e.g. ~/.config/periscope/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "periscope", "config.yaml"), nil
}

// Load reads defaults from path (DefaultPath when empty), overlaid by
// PERISCOPE_* environment variables. A missing file is not an error;
// built-in defaults apply.
func Load(path string) (Defaults, error) {
	def := Defaults{Interval: 2.0}

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			// No resolvable config dir; run on built-ins.
			return def, nil
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PERISCOPE")
	v.AutomaticEnv()
	v.SetDefault("interval", def.Interval)
	v.SetDefault("precise", def.Precise)
	v.SetDefault("differences", def.Differences)
	v.SetDefault("beep", def.Beep)
	v.SetDefault("errexit", def.ErrExit)
	v.SetDefault("no_title", def.NoTitle)
	v.SetDefault("log_file", def.LogFile)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return def, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&def); err != nil {
		return def, fmt.Errorf("parse config %s: %w", path, err)
	}
	if def.Interval <= 0 {
		return def, fmt.Errorf("config %s: interval must be positive, got %g", path, def.Interval)
	}
	return def, nil
}
