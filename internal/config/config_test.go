package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Schema)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Stream.CRC)
	assert.False(t, cfg.Stream.Compress)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("load existing config", func(t *testing.T) {
		path := filepath.Join(dir, "binmap.yaml")
		data := "schema: weather.yaml\nlogging:\n  level: debug\nstream:\n  crc: true\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "weather.yaml", cfg.Schema)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Stream.CRC)
		assert.False(t, cfg.Stream.Compress)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schema: a.yaml\n"), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schema: [\n"), 0o600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("invalid level", func(t *testing.T) {
		path := filepath.Join(dir, "level.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o600))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "loud")
	})
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
