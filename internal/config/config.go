// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package config loads and validates the weatherflow service configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kkyr/fig"
)

const configEnv = "WEATHERFLOW"

// DefaultPlace is searched on startup when no place is active yet.
const DefaultPlace = "New York"

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Provider struct {
		APIKey string `fig:"api_key"`
	} `fig:"provider"`

	Weather struct {
		DefaultPlace string `fig:"default_place"`
	} `fig:"weather"`

	Intervals struct {
		Refresh time.Duration `fig:"refresh" default:"15m"`
		Output  time.Duration `fig:"output" default:"30s"`
	} `fig:"intervals"`

	Store struct {
		Path string `fig:"path"`
	} `fig:"store"`

	GeoLocation struct {
		File string `fig:"file"`
	} `fig:"geolocation"`
}

// NewFromFile loads the configuration from the given file with environment overrides.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// New loads the configuration from the environment with built-in defaults.
func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// Validate checks the loaded configuration for consistency and fills derived defaults.
func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider API key is required")
	}
	if c.Intervals.Refresh <= 0 || c.Intervals.Output <= 0 {
		return fmt.Errorf("intervals must be positive")
	}
	if c.Weather.DefaultPlace == "" {
		c.Weather.DefaultPlace = DefaultPlace
	}
	if c.Store.Path == "" {
		home, _ := os.UserHomeDir()
		c.Store.Path = filepath.Join(home, ".local", "share", "weatherflow")
	}
	if c.GeoLocation.File == "" {
		home, _ := os.UserHomeDir()
		c.GeoLocation.File = filepath.Join(home, ".config", "weatherflow", "geolocation")
	}

	return nil
}
