// Package config provides configuration loading and structs for the knn CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dataset sources.
const (
	SourceIris   = "iris"
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all configuration for a classification run.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Split      SplitConfig      `yaml:"split"`
	Report     ReportConfig     `yaml:"report"`
}

// ClassifierConfig holds classifier settings.
type ClassifierConfig struct {
	K int `yaml:"k"`
}

// DatasetConfig selects where labeled points come from.
type DatasetConfig struct {
	Source      string   `yaml:"source"`
	Path        string   `yaml:"path"`
	Name        string   `yaml:"name"`
	LabelColumn string   `yaml:"label_column"`
	Features    []string `yaml:"features"`
}

// SplitConfig holds the modulo train/test split. Row i is a test row iff
// i % Modulus == TestRemainder.
type SplitConfig struct {
	Modulus       int `yaml:"modulus"`
	TestRemainder int `yaml:"test_remainder"`
}

// ReportConfig holds output settings.
type ReportConfig struct {
	Format string `yaml:"format"`
}

// Load reads and parses the config file at path, applies defaults, and expands paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.Dataset.Path = expandPath(cfg.Dataset.Path, filepath.Dir(path))
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Classifier.K < 1 {
		return fmt.Errorf("config: classifier.k must be >= 1, got %d", c.Classifier.K)
	}
	switch c.Dataset.Source {
	case SourceIris:
	case SourceCSV, SourceSQLite:
		if c.Dataset.Path == "" {
			return fmt.Errorf("config: dataset.path is required for source %q", c.Dataset.Source)
		}
	default:
		return fmt.Errorf("config: unknown dataset.source %q", c.Dataset.Source)
	}
	if c.Dataset.Source == SourceSQLite && c.Dataset.Name == "" {
		return fmt.Errorf("config: dataset.name is required for source %q", SourceSQLite)
	}
	if c.Split.Modulus < 2 {
		return fmt.Errorf("config: split.modulus must be >= 2, got %d", c.Split.Modulus)
	}
	if c.Split.TestRemainder < 0 || c.Split.TestRemainder >= c.Split.Modulus {
		return fmt.Errorf("config: split.test_remainder must be in [0, %d), got %d", c.Split.Modulus, c.Split.TestRemainder)
	}
	switch c.Report.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("config: unknown report.format %q", c.Report.Format)
	}
	return nil
}

// expandPath resolves paths starting with "./" against configDir. Other paths
// are returned unchanged.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	return path
}
