// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/DarkCodePE/gemini-cli-swarm/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete enjambre configuration.
type Config struct {
	Version string `toml:"version"`

	Gemini    GeminiConfig    `toml:"gemini"`
	Cost      CostConfig      `toml:"cost"`
	Monitor   MonitorConfig   `toml:"monitor"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	UI        UIConfig        `toml:"ui"`
}

// GeminiConfig configures the Gemini backends.
type GeminiConfig struct {
	// APIKey authenticates the API adapter. Overridden by GEMINI_API_KEY.
	APIKey string `toml:"api_key"`
	// Model is the default API model name.
	Model string `toml:"model"`
	// CLIPath locates the gemini CLI binary for the subprocess adapter.
	CLIPath string `toml:"cli_path"`
	// CLITimeoutSeconds bounds one CLI invocation.
	CLITimeoutSeconds int `toml:"cli_timeout_seconds"`
	// RequestsPerMinute rate-limits the API adapter.
	RequestsPerMinute int `toml:"requests_per_minute"`
	// MaxRetries bounds retry attempts on transient API errors.
	MaxRetries int `toml:"max_retries"`
}

// CostConfig configures budget enforcement.
type CostConfig struct {
	// MaxCostPerTask vetoes any single task estimated above this (USD).
	// Zero disables the per-task limit.
	MaxCostPerTask float64 `toml:"max_cost_per_task"`
	// MaxCostPerPeriod caps accumulated spend (USD). Zero disables.
	MaxCostPerPeriod float64 `toml:"max_cost_per_period"`
	// Priority is "low", "balanced", "high", or "critical".
	Priority string `toml:"priority"`
}

// MonitorConfig configures performance alerting.
type MonitorConfig struct {
	MinSuccessRate     float64 `toml:"min_success_rate"`
	MaxAvgResponseMs   int     `toml:"max_avg_response_ms"`
	MaxCostPerTask     float64 `toml:"max_cost_per_task"`
	MinTokensPerSecond float64 `toml:"min_tokens_per_second"`
	// TrendHours is how far back trend reports look.
	TrendHours int `toml:"trend_hours"`
}

// TelemetryConfig configures the local run archive.
type TelemetryConfig struct {
	// Enabled turns the SQLite run archive on.
	Enabled bool `toml:"enabled"`
	// DBPath overrides the archive location. Empty means
	// ~/.enjambre/telemetry.db.
	DBPath string `toml:"db_path"`
}

// UIConfig configures terminal output.
type UIConfig struct {
	// Color is "auto", "always", or "never".
	Color string `toml:"color"`
	// SyntaxHighlight enables code block highlighting in output.
	SyntaxHighlight bool `toml:"syntax_highlight"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Gemini: GeminiConfig{
			Model:             "gemini-1.5-flash",
			CLIPath:           "gemini",
			CLITimeoutSeconds: 120,
			RequestsPerMinute: 60,
			MaxRetries:        3,
		},
		Cost: CostConfig{
			MaxCostPerTask:   0.05,
			MaxCostPerPeriod: 5.00,
			Priority:         "balanced",
		},
		Monitor: MonitorConfig{
			MinSuccessRate:     0.8,
			MaxAvgResponseMs:   30_000,
			MaxCostPerTask:     0.05,
			MinTokensPerSecond: 5.0,
			TrendHours:         24,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Color:           "auto",
			SyntaxHighlight: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.enjambre, creating nothing.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".enjambre"), nil
}

// ConfigPath returns the default TOML config location.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// TelemetryDBPath resolves the run archive location, honoring the
// configured override.
func (c *Config) TelemetryDBPath() (string, error) {
	if c.Telemetry.DBPath != "" {
		return c.Telemetry.DBPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "telemetry.db"), nil
}

// EnsureConfigDir creates ~/.enjambre with owner-only permissions.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from ENJAMBRE_CONFIG or the default
// location, falling back to defaults when no file exists. Environment
// overrides apply last.
func Load() (*Config, error) {
	path := os.Getenv("ENJAMBRE_CONFIG")
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := loadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot stat config %s: %w", path, err)
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads the configuration from an explicit file. The file
// must exist. Environment overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid TOML in %s: %w", path, err)
	}
	return nil
}

// applyEnv layers environment variables over the loaded config.
func applyEnv(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	if model := os.Getenv("ENJAMBRE_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}
	if prio := os.Getenv("ENJAMBRE_PRIORITY"); prio != "" {
		cfg.Cost.Priority = prio
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default location atomically.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration to an explicit path atomically, with
// owner-only permissions since it may hold an API key.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o600)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Cost.Priority {
	case "low", "balanced", "high", "critical":
	default:
		errs = append(errs, ValidationError{
			Field:   "cost.priority",
			Message: fmt.Sprintf("must be low, balanced, high, or critical, got %q", c.Cost.Priority),
		})
	}
	if c.Cost.MaxCostPerTask < 0 {
		errs = append(errs, ValidationError{Field: "cost.max_cost_per_task", Message: "must not be negative"})
	}
	if c.Cost.MaxCostPerPeriod < 0 {
		errs = append(errs, ValidationError{Field: "cost.max_cost_per_period", Message: "must not be negative"})
	}
	if c.Monitor.MinSuccessRate < 0 || c.Monitor.MinSuccessRate > 1 {
		errs = append(errs, ValidationError{Field: "monitor.min_success_rate", Message: "must be between 0 and 1"})
	}
	if c.Monitor.TrendHours < 0 {
		errs = append(errs, ValidationError{Field: "monitor.trend_hours", Message: "must not be negative"})
	}
	if c.Gemini.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "gemini.requests_per_minute", Message: "must not be negative"})
	}
	if c.Gemini.MaxRetries < 0 {
		errs = append(errs, ValidationError{Field: "gemini.max_retries", Message: "must not be negative"})
	}
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.color",
			Message: fmt.Sprintf("must be auto, always, or never, got %q", c.UI.Color),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CLITimeout returns the CLI timeout as a duration.
func (c *Config) CLITimeout() time.Duration {
	if c.Gemini.CLITimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.Gemini.CLITimeoutSeconds) * time.Second
}
