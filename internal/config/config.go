// Package config provides configuration types, defaults, and persistence for
// the strata tool itself. The layered application configuration that strata
// resolves is a separate concern and lives in the profile engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the tool configuration loaded from strata.yml.
type Config struct {
	Logging LoggingConfig   `mapstructure:"logging"`
	History HistoryConfig   `mapstructure:"history"`
	Tracing TracingConfig   `mapstructure:"tracing"`
	Watch   WatchConfig     `mapstructure:"watch"`
	Output  OutputConfig    `mapstructure:"output"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is the minimum level written: "debug", "info", "warn", "error".
	// Default: "info".
	Level string `mapstructure:"level"`

	// File is the log file path. Empty disables file logging.
	File string `mapstructure:"file"`
}

// HistoryConfig controls the run-history store.
type HistoryConfig struct {
	// Enabled controls whether runs are recorded.
	// Default: true.
	Enabled bool `mapstructure:"enabled"`

	// Path is the SQLite database file.
	// Default: ~/.config/strata/history.db
	Path string `mapstructure:"path"`

	// Keep is how many runs to retain when pruning.
	// Default: 50.
	Keep int `mapstructure:"keep"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/strata/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// DebounceMs batches rapid file events before a reload, in
	// milliseconds. Default: 400.
	DebounceMs int `mapstructure:"debounce_ms"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format is the default output format: "text" or "json".
	// Default: "text".
	Format string `mapstructure:"format"`

	// Verbose includes per-key source attribution in reports.
	Verbose bool `mapstructure:"verbose"`
}

// DefaultHistoryPath returns the default run-history database path.
// Returns ~/.config/strata/history.db or empty string if home dir unavailable.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "strata", "history.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/strata/traces/traces.jsonl or empty string if home dir
// unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "strata", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "", // Derived from config dir at runtime
			Keep:    50,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Watch: WatchConfig{
			DebounceMs: 400,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := ValidateLogging(c.Logging); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if err := ValidateOutput(c.Output); err != nil {
		return err
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMs)
	}
	if c.History.Keep < 0 {
		return fmt.Errorf("history.keep must not be negative, got %d", c.History.Keep)
	}
	return nil
}

// ValidateLogging checks logging configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateLogging(logging LoggingConfig) error {
	if logging.Level == "" {
		return nil
	}
	switch logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", logging.Level)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}
	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// ValidateOutput checks output configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateOutput(output OutputConfig) error {
	if output.Format == "" {
		return nil
	}
	switch output.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("output.format must be \"text\" or \"json\", got %q", output.Format)
	}
}
