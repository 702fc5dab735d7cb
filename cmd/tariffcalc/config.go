package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI configuration.
type Config struct {
	// Input files: JSON arrays of {startTime, kwh} readings, the shape the
	// import pipeline emits.
	ReadingsPath    string `yaml:"readings_path"`
	GasReadingsPath string `yaml:"gas_readings_path"`

	// Plan selection: either a preset name from the catalog or a path to a
	// plan record JSON file. Exactly one is required.
	Preset   string `yaml:"preset"`
	PlanPath string `yaml:"plan_path"`

	// DefaultRate is the bucket charged for time no schedule period
	// covers, when a stored day schedule names none.
	DefaultRate string `yaml:"default_rate"`

	Debug bool `yaml:"debug"`
}

// LoadConfig loads configuration from a YAML file, applying defaults and
// environment variable overrides. An empty path returns defaults plus
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		DefaultRate: "day",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentVariables()
	return config, nil
}

func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("TARIFFCALC_READINGS"); val != "" {
		c.ReadingsPath = val
	}
	if val := os.Getenv("TARIFFCALC_GAS_READINGS"); val != "" {
		c.GasReadingsPath = val
	}
	if val := os.Getenv("TARIFFCALC_PRESET"); val != "" {
		c.Preset = val
	}
	if val := os.Getenv("TARIFFCALC_PLAN"); val != "" {
		c.PlanPath = val
	}
	if val := os.Getenv("TARIFFCALC_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.ReadingsPath == "" {
		errs = append(errs, "readings_path is required")
	}
	if c.Preset == "" && c.PlanPath == "" {
		errs = append(errs, "one of preset or plan_path is required")
	}
	if c.Preset != "" && c.PlanPath != "" {
		errs = append(errs, "preset and plan_path are mutually exclusive")
	}
	if c.DefaultRate == "" {
		errs = append(errs, "default_rate must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
