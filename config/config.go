// Package config holds the settings of the calculator shell.
//
// Settings come from a YAML or JSON file and are then overridden by command
// line flags. Missing keys keep the values of Default:
//
//	prompt: "> "
//	format: "%g"
//	strict: true
//	echo: false
//	history:
//	  enabled: true
//	  path: ":memory:"
//	log:
//	  level: info
//	  format: text
//	telemetry:
//	  metrics: false
//	  tracing: false
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the full shell configuration.
type Config struct {
	Prompt string `yaml:"prompt" json:"prompt"`
	// Format is the fmt verb used to print results.
	Format string `yaml:"format" json:"format"`
	// Strict rejects tokens left over after a complete expression.
	Strict bool `yaml:"strict" json:"strict"`
	// Echo prints the parsed tree before each result.
	Echo bool `yaml:"echo" json:"echo"`

	History   HistoryConfig   `yaml:"history" json:"history"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
}

type HistoryConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Path is a SQLite database file, or ":memory:" / "" for an in-process store.
	Path string `yaml:"path" json:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // "text" or "json".
}

type TelemetryConfig struct {
	Metrics bool `yaml:"metrics" json:"metrics"`
	Tracing bool `yaml:"tracing" json:"tracing"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Prompt: "> ",
		Format: "%g",
		Strict: true,
		History: HistoryConfig{
			Enabled: true,
			Path:    ":memory:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data on top of Default.
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromJSON parses JSON data on top of Default.
func FromJSON(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that cannot be checked by decoding alone.
func (c Config) Validate() error {
	if !strings.Contains(c.Format, "%") {
		return fmt.Errorf("%w: format %q has no verb", ErrInvalid, c.Format)
	}
	if out := fmt.Sprintf(c.Format, 1.0); strings.Contains(out, "%!") {
		return fmt.Errorf("%w: format %q does not print a float64: %s", ErrInvalid, c.Format, out)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q (want text or json)", ErrInvalid, c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error", case-insensitive).
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, l.Level)
	}
	return level, nil
}

// HistoryPath returns the SQLite path to open, or "" when history should be
// kept in process memory.
func (h HistoryConfig) HistoryPath() string {
	if h.Path == ":memory:" {
		return ""
	}
	return h.Path
}
