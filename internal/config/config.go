// Package config loads and validates the panel configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the configuration file omits an option.
const (
	DefaultRefreshDelaySeconds = 300
	DefaultWarningDays         = 30
	DefaultCriticalDays        = 60
	DefaultSettleDelaySeconds  = 2
)

// Config holds the recognized panel options.
//
// LogoPath, TransparencyLevel and WidgetMode are rendering options carried
// through for the embedding UI layer; the core ignores them.
type Config struct {
	LogoPath               string  `yaml:"logoPath"`
	ValidationMarkerPath   string  `yaml:"validationMarkerPath"`
	AuditLogPath           string  `yaml:"auditLogPath"`
	RefreshDelaySeconds    int     `yaml:"refreshDelaySeconds"`
	PatchAgingWarningDays  int     `yaml:"patchAgingWarningDays"`
	PatchAgingCriticalDays int     `yaml:"patchAgingCriticalDays"`
	SettleDelaySeconds     int     `yaml:"settleDelaySeconds"`
	TransparencyLevel      float64 `yaml:"transparencyLevel"`
	WidgetMode             bool    `yaml:"widgetMode"`
}

// Load reads the YAML configuration at path, applies defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse unmarshals a YAML configuration document, applying defaults for
// omitted options.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		RefreshDelaySeconds:    DefaultRefreshDelaySeconds,
		PatchAgingWarningDays:  DefaultWarningDays,
		PatchAgingCriticalDays: DefaultCriticalDays,
		SettleDelaySeconds:     DefaultSettleDelaySeconds,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the core depends on. The aging
// thresholds must satisfy 0 < warning < critical.
func (c *Config) Validate() error {
	if c.AuditLogPath == "" {
		return errors.New("auditLogPath is required")
	}
	if c.ValidationMarkerPath == "" {
		return errors.New("validationMarkerPath is required")
	}
	if c.RefreshDelaySeconds <= 0 {
		return fmt.Errorf("refreshDelaySeconds must be positive, got %d", c.RefreshDelaySeconds)
	}
	if c.PatchAgingWarningDays <= 0 {
		return fmt.Errorf("patchAgingWarningDays must be positive, got %d", c.PatchAgingWarningDays)
	}
	if c.PatchAgingCriticalDays <= c.PatchAgingWarningDays {
		return fmt.Errorf("patchAgingCriticalDays (%d) must exceed patchAgingWarningDays (%d)",
			c.PatchAgingCriticalDays, c.PatchAgingWarningDays)
	}
	if c.SettleDelaySeconds < 0 {
		return fmt.Errorf("settleDelaySeconds must not be negative, got %d", c.SettleDelaySeconds)
	}
	return nil
}

// RefreshDelay returns the refresh interval as a duration.
func (c *Config) RefreshDelay() time.Duration {
	return time.Duration(c.RefreshDelaySeconds) * time.Second
}

// SettleDelay returns the adapter settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelaySeconds) * time.Second
}
