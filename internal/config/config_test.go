package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.AIProvider)
	assert.Equal(t, 20*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, 20, cfg.ReportLimitPerDay)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("AI_PROVIDER", " OpenAI ")
	t.Setenv("CLASSIFIER_TIMEOUT", "5s")
	t.Setenv("SEED_DEMO_DATA", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.AIProvider)
	assert.Equal(t, 5*time.Second, cfg.ClassifierTimeout)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}
