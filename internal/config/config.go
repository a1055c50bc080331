// Package config loads and validates rsmin.toml.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version   int       `toml:"version"`
	Paths     Paths     `toml:"paths"`
	Workspace Workspace `toml:"workspace"`
	Exclude   Exclude   `toml:"exclude"`
	Minify    Minify    `toml:"minify"`
	Watch     Watch     `toml:"watch"`
	History   History   `toml:"history"`
}

type Paths struct {
	Root   string `toml:"root"`
	Output string `toml:"output"` // empty means stdout
}

type Workspace struct {
	Manifest string `toml:"manifest"`
	Entry    string `toml:"entry"` // overrides manifest resolution
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Minify struct {
	Rename  *bool `toml:"rename"`
	Compact *bool `toml:"compact"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Rate     float64       `toml:"rate"`  // runs per second in watch mode
	Burst    int           `toml:"burst"` // burst size for the run limiter
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Project string `toml:"project"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}
	if err := validateHistory(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no rsmin.toml exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.Root) == "" {
		cfg.Paths.Root = "."
	}

	if strings.TrimSpace(cfg.Workspace.Manifest) == "" {
		cfg.Workspace.Manifest = "Cargo.toml"
	}

	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"target", ".git"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.Rate <= 0 {
		cfg.Watch.Rate = 2
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "data/rsmin-history.db"
	}
	if strings.TrimSpace(cfg.History.Project) == "" {
		cfg.History.Project = "default"
	}
}

// RenameEnabled reports whether the rename pass runs. Unset means enabled.
func (m Minify) RenameEnabled() bool {
	return m.Rename == nil || *m.Rename
}

// CompactEnabled reports whether the compaction pass runs. Unset means
// enabled.
func (m Minify) CompactEnabled() bool {
	return m.Compact == nil || *m.Compact
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.Debounce > time.Minute {
		return fmt.Errorf("watch.debounce %s is unreasonably large; maximum is 1m", cfg.Watch.Debounce)
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must be set when history is enabled")
	}
	return nil
}
