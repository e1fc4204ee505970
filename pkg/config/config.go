// Package config provides configuration loading and management for voxelcc3d.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"voxelcc3d/pkg/labeling"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores bounds how many volumes are labeled concurrently
		NumCores int `yaml:"numCores"`

		// Connectivity selects the voxel neighborhood: "face" for
		// 6-connectivity or "face-edge-vertex" for 26-connectivity
		Connectivity string `yaml:"connectivity"`

		// BackgroundValue is the input voxel value treated as background
		BackgroundValue uint64 `yaml:"backgroundValue"`

		// BackgroundLabel is the output label written for background voxels
		BackgroundLabel uint64 `yaml:"backgroundLabel"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Compress enables zstd compression of written label volumes
		Compress bool `yaml:"compress"`

		// TopComponents is how many of the largest components the
		// per-volume report lists
		TopComponents int `yaml:"topComponents"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default processing parameters
	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Processing.Connectivity = labeling.Face.String()
	cfg.Processing.BackgroundValue = 0
	cfg.Processing.BackgroundLabel = 0

	// Set default output parameters
	cfg.Output.Compress = true
	cfg.Output.TopComponents = 10
	cfg.Output.Verbose = true

	return cfg
}

// Params converts the configured connectivity into labeling parameters
func (c *Config) Params() (labeling.Params, error) {
	conn, err := labeling.ParseConnectivity(c.Processing.Connectivity)
	if err != nil {
		return labeling.Params{}, err
	}
	return labeling.Params{Connectivity: conn}, nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Reject values the labeler would refuse later anyway
	if _, err := cfg.Params(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	if cfg.Processing.NumCores < 0 {
		return nil, fmt.Errorf("error validating config: numCores must be >= 0, got %d", cfg.Processing.NumCores)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
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
