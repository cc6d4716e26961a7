package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, "0.0.0.0:9779", cfg.Server.Addr)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.TextModel)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SERVER_ADDR", "127.0.0.1:8000")
	t.Setenv("SERVER_READ_TIMEOUT", "30")
	t.Setenv("LOG_ENCODING", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, "json", cfg.Log.Encoding)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	assert.Equal(t, 15, getEnvInt("SERVER_READ_TIMEOUT", 15))
}
