package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/mongo-viewer/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:3001", cfg.Server.Address())
	assert.Equal(t, int64(50), cfg.Documents.DefaultLimit)
	assert.Equal(t, int64(0), cfg.Documents.MaxLimit)
	assert.Equal(t, "plain", cfg.Documents.JSONMode)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.Cache.Enabled())
	assert.Equal(t, time.Duration(0), cfg.MongoDB.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.MongoDB.DisconnectTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8099")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("DOCUMENT_DEFAULT_LIMIT", "20")
	t.Setenv("DOCUMENT_JSON_MODE", "relaxed")
	t.Setenv("MONGODB_CONNECT_TIMEOUT_SECONDS", "5")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:5173, ,http://localhost:3000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8099, cfg.Server.Port)
	assert.True(t, cfg.Cache.Enabled())
	assert.Equal(t, int64(20), cfg.Documents.DefaultLimit)
	assert.Equal(t, "relaxed", cfg.Documents.JSONMode)
	assert.Equal(t, 5*time.Second, cfg.MongoDB.ConnectTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowOrigins)
}

func TestLoad_InvalidIntegerFallsBackToDefault(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
}

func TestLoad_RejectsUnknownJSONMode(t *testing.T) {
	t.Setenv("DOCUMENT_JSON_MODE", "xml")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownCacheType(t *testing.T) {
	t.Setenv("CACHE_TYPE", "memcached")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate_NegativeMaxLimit(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Documents.MaxLimit = -1
	assert.Error(t, cfg.Validate())
}
