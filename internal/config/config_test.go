package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, "players.db", cfg.SQLitePath)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.StorageBreaker)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PORT":            "9090",
		"STORAGE_TYPE":    "postgres",
		"DATABASE_URL":    "postgres://localhost/players",
		"STORAGE_BREAKER": "true",
		"WRITE_TIMEOUT":   "3s",
		"LOG_LEVEL":       "DEBUG",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.StorageType)
	assert.Equal(t, "postgres://localhost/players", cfg.DatabaseURL)
	assert.True(t, cfg.StorageBreaker)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestInvalidValue(t *testing.T) {
	_, err := LoadFrom(map[string]string{"PORT": "eighty"})
	assert.Error(t, err)
}
