// Package config provides configuration management for smallworld.
//
// Config file locations (priority order):
//  1. $SMALLWORLD_CONFIG
//  2. ./smallworld.yaml
//  3. ~/.config/smallworld/config.yaml
//  4. /etc/smallworld/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"smallworld/internal/solver"
)

// Config is the top-level configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Viewport ViewportConfig `yaml:"viewport"`
	Engine   EngineConfig   `yaml:"engine"`
	Solver   solver.Config  `yaml:"solver"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig configures layout persistence.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ViewportConfig holds the initial container dimensions.
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// EngineConfig tunes the frame loop.
type EngineConfig struct {
	FrameRate int `yaml:"frame_rate"`
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":3000"},
		Database: DatabaseConfig{Path: "./smallworld.db"},
		Viewport: ViewportConfig{Width: 1280, Height: 800},
		Engine:   EngineConfig{FrameRate: 60},
		Solver:   solver.DefaultConfig(),
	}
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
	if c.Viewport.Width == 0 {
		c.Viewport.Width = d.Viewport.Width
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = d.Viewport.Height
	}
	if c.Engine.FrameRate == 0 {
		c.Engine.FrameRate = d.Engine.FrameRate
	}
	// Solver zero values are filled by the solver itself; nothing to do.
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport dimensions must not be negative (got %gx%g)",
			c.Viewport.Width, c.Viewport.Height)
	}
	if c.Engine.FrameRate < 0 {
		return fmt.Errorf("frame_rate must not be negative (got %d)", c.Engine.FrameRate)
	}
	if c.Solver.AlphaDecay < 0 || c.Solver.AlphaDecay >= 1 {
		return fmt.Errorf("solver alpha_decay must be in [0, 1) (got %g)", c.Solver.AlphaDecay)
	}
	if c.Solver.VelocityDecay < 0 || c.Solver.VelocityDecay >= 1 {
		return fmt.Errorf("solver velocity_decay must be in [0, 1) (got %g)", c.Solver.VelocityDecay)
	}
	return nil
}
