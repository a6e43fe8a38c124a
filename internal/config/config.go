// Package config loads reqtrace settings from .reqtrace/config.yaml and
// REQTRACE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/reqtrace/internal/source"
)

const (
	// Dir holds the project configuration and database.
	Dir = ".reqtrace"

	// File is the default configuration file.
	File = Dir + "/config.yaml"
)

// Config is the complete reqtrace configuration.
type Config struct {
	Search   []source.Filter `yaml:"search" mapstructure:"search"`
	Workers  int             `yaml:"workers" mapstructure:"workers"` // 0 means one per CPU
	Database string          `yaml:"database" mapstructure:"database"`
	Report   ReportConfig    `yaml:"report" mapstructure:"report"`
}

// ReportConfig sets the defaults of the report command.
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// Default returns the configuration written by init.
func Default() *Config {
	return &Config{
		Search: []source.Filter{
			{Root: "features", Recursive: true, Pattern: "*.feature"},
		},
		Workers:  0,
		Database: Dir + "/reqtrace.db",
		Report: ReportConfig{
			Format: "xlsx",
			Output: "reqtrace-report.xlsx",
		},
	}
}

// Write saves cfg as YAML at path, creating its directory.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
