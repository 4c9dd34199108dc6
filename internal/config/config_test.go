package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "STRICT_NOT_FOUND", "STORAGE_DRIVER", "MONGO_URI", "MONGO_DB",
		"GEMINI_API_KEY", "GIMNI_API_KEY", "GEMINI_MODEL", "JWT_SECRET", "CORS_ALLOW_ORIGINS",
		"LOG_LEVEL", "LOG_ENCODING", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ":3001", cfg.Address())
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.URI)
	assert.Equal(t, "test", cfg.Storage.Database)
	assert.Equal(t, "todos", cfg.Storage.Collection)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.StrictNotFound)
	assert.Equal(t, 15*time.Second, cfg.Shutdown)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GIMNI_API_KEY", "legacy-key")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, http://example.com ,")
	t.Setenv("STRICT_NOT_FOUND", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "legacy-key", cfg.AI.APIKey)
	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.CORS.AllowOrigins)
	assert.True(t, cfg.StrictNotFound)
	assert.Equal(t, 5*time.Second, cfg.Shutdown)
}

func TestLoad_PrefersGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "new-key")
	t.Setenv("GIMNI_API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "new-key", cfg.AI.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "postgres"}},
		{name: "non numeric port", env: map[string]string{"STORAGE_DRIVER": "memory", "PORT": "http"}},
		{name: "unknown gin mode", env: map[string]string{"STORAGE_DRIVER": "memory", "GIN_MODE": "production"}},
		{name: "unknown log level", env: map[string]string{"STORAGE_DRIVER": "memory", "LOG_LEVEL": "verbose"}},
		{name: "unknown log encoding", env: map[string]string{"STORAGE_DRIVER": "memory", "LOG_ENCODING": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_AcceptsGinModesAndLogLevels(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	for _, mode := range []string{"debug", "release", "test"} {
		t.Setenv("GIN_MODE", mode)
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_ENCODING", "console")
		cfg, err := Load()
		require.NoError(t, err, mode)
		assert.Equal(t, mode, cfg.GinMode)
	}
}
