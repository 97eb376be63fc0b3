// Package config holds the binmap command line defaults.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI defaults file
type Config struct {
	Schema  string  `yaml:"schema"`
	Logging Logging `yaml:"logging"`
	Stream  Stream  `yaml:"stream"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// Stream contains frame stream defaults
type Stream struct {
	CRC      bool `yaml:"crc"`
	Compress bool `yaml:"compress"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: Logging{Level: "info"},
	}
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	if _, err := ParseLevel(cfg.Logging.Level); err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return cfg, nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.Errorf("unknown log level %q", name)
}
