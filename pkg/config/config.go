// Package config provides configuration loading and management for voxelporosity.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"voxelporosity/internal/logging"
	"voxelporosity/internal/models"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Analysis parameters
	Analysis struct {
		// BodyMode selects the foreground test: "exact" (value == BodyValue)
		// or "threshold" (value > BodyValue)
		BodyMode string `yaml:"bodyMode"`

		// BodyValue is the foreground intensity or threshold
		BodyValue uint8 `yaml:"bodyValue"`

		// MinVoxels3D is the smallest floating body that gets reported
		MinVoxels3D int `yaml:"minVoxels3D"`

		// MinArea2D is the area below which a slice component is an island
		MinArea2D int `yaml:"minArea2D"`

		// Parallel runs the analyses of one volume concurrently
		Parallel bool `yaml:"parallel"`
	} `yaml:"analysis"`

	// Output parameters
	Output struct {
		// Collage writes a slice collage with pore and body outlines
		Collage bool `yaml:"collage"`

		// CollageColumns is the number of slices per collage row
		CollageColumns int `yaml:"collageColumns"`

		// ResultsDir is where comparison results are written
		ResultsDir string `yaml:"resultsDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Log configures an optional rotating log file
	Log logging.LogConfig `yaml:"log"`

	// Synthesis parameters for generated test volumes
	Synthesis struct {
		// Size is the edge length of generated cubes in voxels
		Size int `yaml:"size"`

		// Seed drives the noise generator
		Seed int64 `yaml:"seed"`

		// HoleRadius is the radius of spherical holes in voxels
		HoleRadius int `yaml:"holeRadius"`
	} `yaml:"synthesis"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Foreground is pure white, matched exactly
	cfg.Analysis.BodyMode = "exact"
	cfg.Analysis.BodyValue = 255
	cfg.Analysis.MinVoxels3D = 10
	cfg.Analysis.MinArea2D = 30
	cfg.Analysis.Parallel = true

	cfg.Output.Collage = false
	cfg.Output.CollageColumns = 10
	cfg.Output.ResultsDir = "results"
	cfg.Output.Verbose = false

	cfg.Log.MaxSize = 10
	cfg.Log.MaxAge = 7

	cfg.Synthesis.Size = 50
	cfg.Synthesis.Seed = 42
	cfg.Synthesis.HoleRadius = 5

	return cfg
}

// BodyRule returns the foreground test described by the analysis section.
func (c *Config) BodyRule() (models.BodyRule, error) {
	return models.ParseBodyRule(c.Analysis.BodyMode, c.Analysis.BodyValue)
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if _, err := cfg.BodyRule(); err != nil {
		return nil, fmt.Errorf("invalid analysis section: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
