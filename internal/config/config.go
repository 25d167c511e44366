// Package config loads spacebound settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexshd/spacebound"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config holds all spacebound settings.
type Config struct {
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Log       LogConfig       `yaml:"log"`
}

// OptimizerConfig mirrors spacebound.Config.
type OptimizerConfig struct {
	BaseFloor      float64 `yaml:"base_floor"`
	Tolerance      float64 `yaml:"tolerance"`
	Attractor      float64 `yaml:"attractor"`
	MinBatch       int     `yaml:"min_batch"`
	MaxBatch       int     `yaml:"max_batch"`
	MemoryBudgetMB float64 `yaml:"memory_budget_mb"` // 0 disables the memory cap
	ItemMemoryMB   float64 `yaml:"item_memory_mb"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Color bool   `yaml:"color"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opt := spacebound.DefaultConfig()
	return &Config{
		Optimizer: OptimizerConfig{
			BaseFloor:      opt.BaseFloor,
			Tolerance:      opt.Tolerance,
			Attractor:      opt.Attractor,
			MinBatch:       opt.MinBatch,
			MaxBatch:       opt.MaxBatch,
			MemoryBudgetMB: opt.MemoryBudgetMB,
			ItemMemoryMB:   opt.ItemMemoryMB,
		},
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
	}
}

// Load reads a YAML file on top of Default. Fields missing from the file keep
// their default value; unknown fields are rejected. An empty path returns
// Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the optimizer settings and the log level.
func (c *Config) Validate() error {
	if err := c.ToOptimizerConfig().Validate(); err != nil {
		return fmt.Errorf("%w: optimizer: %w", ErrInvalid, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("%w: log: %w", ErrInvalid, err)
	}
	return nil
}

// ToOptimizerConfig converts the optimizer section for spacebound.NewOptimizer.
func (c *Config) ToOptimizerConfig() spacebound.Config {
	o := c.Optimizer
	return spacebound.Config{
		BaseFloor:      o.BaseFloor,
		Tolerance:      o.Tolerance,
		Attractor:      o.Attractor,
		MinBatch:       o.MinBatch,
		MaxBatch:       o.MaxBatch,
		MemoryBudgetMB: o.MemoryBudgetMB,
		ItemMemoryMB:   o.ItemMemoryMB,
	}
}

// SlogLevel parses Log.Level. An empty level means info.
func (c *Config) SlogLevel() (slog.Level, error) {
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, err
	}
	return lvl, nil
}
