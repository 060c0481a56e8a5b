package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 10, cfg.Server.BodyLimitMB)
	assert.Equal(t, AIProviderGroq, cfg.AI.Provider)
}

func TestLoadYamlAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), CONFIG_FILE)
	yml := `
environment: production
storage:
  driver: mongo
  mongo_db_name: blogs
rate_limit:
  requests: 20
  window: 1m
ai:
  provider: gemini
  model_name: gemini-2.5-flash
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("PORT", "8081")
	t.Setenv("MONGO_URI", "mongodb://example:27017")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GROQ_API_KEY", "groq-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, StorageMongo, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://example:27017", cfg.Storage.MongoURI)
	assert.Equal(t, "blogs", cfg.Storage.MongoDBName)
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.ModelName)
	assert.Equal(t, "gemini-key", cfg.AI.APIKey)
	// untouched fields keep their defaults
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), CONFIG_FILE)
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: cassandra\n"), 0o600))
	t.Setenv("STORAGE_DRIVER", "")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestGeminiGetsItsOwnDefaultModel(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("AI_MODEL", "")

	testCases := []struct {
		name      string
		provider  string
		model     string
		wantModel string
	}{
		{name: "groq default", provider: "groq", wantModel: DefaultGroqModel},
		{name: "gemini without model", provider: "gemini", wantModel: DefaultGeminiModel},
		{name: "gemini with explicit model", provider: "gemini", model: "gemini-2.0-pro", wantModel: "gemini-2.0-pro"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv("AI_PROVIDER", testCase.provider)
			t.Setenv("AI_MODEL", testCase.model)

			cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
			require.NoError(t, err)
			assert.Equal(t, testCase.wantModel, cfg.AI.ModelName)
		})
	}
}

func TestTrustedProxiesDefaultToNone(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.0/8")
	cfg, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, cfg.Server.TrustedProxies)
}
