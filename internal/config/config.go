package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendJSON = "json"
	BackendBolt = "bolt"
)

// DefaultPath is the config file looked up when no path is given.
const DefaultPath = "inventory.toml"

type Config struct {
	Ledger  LedgerConfig  `toml:"ledger"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

type LedgerConfig struct {
	LowStockThreshold float64 `toml:"low_stock_threshold"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // "json" or "bolt"
	Path    string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"` // empty logs to stderr
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		Ledger: LedgerConfig{
			LowStockThreshold: 5,
		},
		Storage: StorageConfig{
			Backend: BackendJSON,
			Path:    "inventory.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "inventory.log",
		},
	}
}

// Load reads a TOML config file and returns the parsed Config.
// If path is empty, DefaultPath is tried and defaults are returned when
// it does not exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = DefaultPath
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing config: unknown keys %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// Validate checks field values and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	t := c.Ledger.LowStockThreshold
	if math.IsNaN(t) || math.IsInf(t, 0) {
		errs = append(errs, fmt.Errorf("ledger.low_stock_threshold: must be finite, got %v", t))
	}

	switch c.Storage.Backend {
	case BackendJSON, BackendBolt:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q (want %q or %q)", c.Storage.Backend, BackendJSON, BackendBolt))
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, errors.New("storage.path: must not be empty"))
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// ExpandHome resolves a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
