// Package config loads the research harness configuration from YAML or JSON
// files, with validation and sensible defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/chaintrader/backtest"
)

// Config is the complete harness configuration.
type Config struct {
	Dataset  DatasetConfig   `json:"dataset" yaml:"dataset"`
	Strategy backtest.Params `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
}

// DatasetConfig points at the collected history to replay.
type DatasetConfig struct {
	Type string `json:"type" yaml:"type"` // "sqlite" or "csv"
	Path string `json:"path" yaml:"path"`
}

// JournalConfig controls run persistence.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML (or JSON for .json paths).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration, including the strategy parameters.
func (c *Config) Validate() error {
	switch c.Dataset.Type {
	case "sqlite", "csv":
	default:
		return fmt.Errorf("dataset.type must be 'sqlite' or 'csv', got %q", c.Dataset.Type)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}

	if err := c.Strategy.Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for csv journal")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none', got %q", c.Journal.Type)
	}

	return nil
}

// Default returns a configuration with shipped defaults; the dataset path
// still has to be supplied.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Type: "sqlite",
			Path: "./history.sqlite",
		},
		Strategy: backtest.DefaultParams(),
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./runs.sqlite",
		},
	}
}
