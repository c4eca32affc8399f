// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers an optional YAML file and TASTING_ environment variables on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// LogFile, when set, also writes logs to a rotating file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorageDriver selects the key/value backend: memory, file, sqlite, postgres.
	StorageDriver string `koanf:"storage_driver"`

	// StorageDSN is a directory for the file driver and a DSN for SQL drivers.
	StorageDSN string `koanf:"storage_dsn"`

	// HistoryKey and SettingsKey name the persisted records.
	HistoryKey  string `koanf:"history_key"`
	SettingsKey string `koanf:"settings_key"`

	// MaxRankingsLimit caps GET /rankings?limit.
	MaxRankingsLimit int `koanf:"max_rankings_limit"`

	// MetricsEnabled toggles Prometheus observations.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// RemoteBaseURL is the base of the remote tasting backend API.
	RemoteBaseURL string `koanf:"remote_base_url"`

	// RemoteTimeoutMS bounds a single remote request.
	RemoteTimeoutMS int `koanf:"remote_timeout_ms"`

	// VerdictRules overrides the verdict thresholds, highest first.
	VerdictRules []scoring.Rule `koanf:"verdict_rules"`

	// VerdictRulesFile points at a YAML list of rules; it wins over VerdictRules.
	VerdictRulesFile string `koanf:"verdict_rules_file"`

	// VerdictFallback is the label used when no rule matches.
	VerdictFallback string `koanf:"verdict_fallback"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		StorageDriver:    kv.DriverFile,
		StorageDSN:       "./data",
		HistoryKey:       "history",
		SettingsKey:      "settings",
		MaxRankingsLimit: 100,
		MetricsEnabled:   true,
		RemoteBaseURL:    "http://localhost:3000/api",
		RemoteTimeoutMS:  10_000,
		VerdictFallback:  scoring.DefaultFallback,
	}
}

// RemoteTimeout returns RemoteTimeoutMS as a duration.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutMS) * time.Millisecond
}

// Rules returns the verdict rules, reading VerdictRulesFile when set.
func (c *Config) Rules() ([]scoring.Rule, error) {
	if c.VerdictRulesFile == "" {
		return c.VerdictRules, nil
	}
	data, err := os.ReadFile(c.VerdictRulesFile)
	if err != nil {
		return nil, wrapLoad("read verdict rules", err)
	}
	rules, err := scoring.ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return rules, nil
}

// Validate checks the values Load cannot fix on its own.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.MaxRankingsLimit <= 0:
		return invalid("max_rankings_limit must be positive")
	case c.RemoteTimeoutMS <= 0:
		return invalid("remote_timeout_ms must be positive")
	}
	switch c.StorageDriver {
	case kv.DriverMemory:
	case kv.DriverFile, kv.DriverSQLite, kv.DriverPostgres:
		if c.StorageDSN == "" {
			return invalid("storage_dsn is required for driver " + c.StorageDriver)
		}
	default:
		return invalid(fmt.Sprintf("unknown storage_driver %q", c.StorageDriver))
	}
	if _, err := scoring.NewTable(c.VerdictRules, c.VerdictFallback); err != nil {
		return fmt.Errorf("%w: verdict_rules: %w", ErrInvalidConfig, err)
	}
	return nil
}
