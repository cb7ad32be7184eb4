// config.go
// =============================================================================
// Configuration Management for compact-store
// =============================================================================
//
// The tool runs from a TOML config file plus a few flag overrides. The config
// names the store, which column families to compact (empty means all), and
// the wait-loop cadence.
//
// =============================================================================

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Configuration Structures
// =============================================================================

// Config represents the complete TOML configuration.
type Config struct {
	// StorePath is the RocksDB database directory to compact.
	StorePath string `toml:"store_path"`

	// WalDir is the WAL directory the database was loaded with.
	// Empty means the WAL lives inside StorePath.
	WalDir string `toml:"wal_dir"`

	// ColumnFamilies restricts compaction to the named column families.
	// Empty means every column family persisted in the store.
	ColumnFamilies []string `toml:"column_families"`

	// PollIntervalMs is how often the wait loop samples the compaction
	// counters. 0 uses the library default (100ms).
	PollIntervalMs int `toml:"poll_interval_ms"`

	// NotifyIntervalMs is how often a progress line is logged while
	// waiting. 0 uses the library default (1s).
	NotifyIntervalMs int `toml:"notify_interval_ms"`

	// RemoveEmptyWALFiles deletes zero-length .log files after compaction.
	RemoveEmptyWALFiles bool `toml:"remove_empty_wal_files"`

	// LogFile and ErrorFile enable dual file logging. Both empty means
	// log to the console.
	LogFile   string `toml:"log_file"`
	ErrorFile string `toml:"error_file"`
}

// LoadConfig reads and validates a TOML config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store_path is required")
	}
	if _, err := os.Stat(c.StorePath); err != nil {
		return fmt.Errorf("store_path %s: %w", c.StorePath, err)
	}
	if c.PollIntervalMs < 0 {
		return fmt.Errorf("poll_interval_ms must not be negative")
	}
	if c.NotifyIntervalMs < 0 {
		return fmt.Errorf("notify_interval_ms must not be negative")
	}
	if (c.LogFile == "") != (c.ErrorFile == "") {
		return fmt.Errorf("log_file and error_file must be set together")
	}
	return nil
}

// PollInterval returns the configured poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// NotifyInterval returns the configured notify interval as a duration.
func (c *Config) NotifyInterval() time.Duration {
	return time.Duration(c.NotifyIntervalMs) * time.Millisecond
}
