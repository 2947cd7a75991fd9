package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.True(t, cfg.DBWAL)
	assert.Equal(t, "NORMAL", cfg.DBSyncMode)
	assert.Equal(t, 0.95, cfg.SuccessRate)
	assert.True(t, cfg.Latency)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Seed)
	assert.False(t, cfg.AIEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("EUNOIA_STORAGE", " Memory ")
	t.Setenv("EUNOIA_SUCCESS_RATE", "0.5")
	t.Setenv("EUNOIA_TOKEN_TTL", "90m")
	t.Setenv("EUNOIA_DB_SYNC", "full")
	t.Setenv("EUNOIA_AI_ENDPOINT", "http://localhost:11434/v1/chat/completions")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 0.5, cfg.SuccessRate)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "FULL", cfg.DBSyncMode)
	assert.True(t, cfg.AIEnabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"EUNOIA_STORAGE":      "postgres",
		"EUNOIA_SUCCESS_RATE": "1.5",
		"EUNOIA_TOKEN_TTL":    "-1h",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("EUNOIA_AI_MODEL=llama3\nEUNOIA_HTTP_ADDR=:9999\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("EUNOIA_AI_MODEL")
	})
	t.Setenv("EUNOIA_HTTP_ADDR", ":7000")

	cfg, err := Load(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, "llama3", cfg.AIModel)
	assert.Equal(t, ":7000", cfg.HTTPAddr, "the process environment wins over .env")
}
