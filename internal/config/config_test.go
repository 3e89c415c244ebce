package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/tier"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"THRONE_MODE", "THRONE_PORT", "THRONE_GCP_PROJECT", "THRONE_LLM_PROVIDER",
		"THRONE_STORAGE_BACKEND", "THRONE_BEHAVIOR_CACHE", "THRONE_PRUNE_SCHEDULE",
		"STRIPE_SECRET_KEY", "THRONE_STRIPE_PRICE_APPRENTICE", "ANTHROPIC_API_KEY",
		"OPENAI_API_KEY", "THRONE_WATCH_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadLocalDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, LLMMock, cfg.LLMProvider)
	assert.Equal(t, "@hourly", cfg.PruneSchedule)
	assert.Equal(t, "configs/solicitation.yaml", cfg.SolicitationConfig)
	assert.False(t, cfg.WatchConfig)
	assert.Equal(t, "sandbox", cfg.BillingProvider())
	assert.Equal(t, "price_sandbox_regent", cfg.StripePrices[tier.Regent])
	_, hasNovice := cfg.StripePrices[tier.Novice]
	assert.False(t, hasNovice)
}

func TestLoadGCPRequiresProject(t *testing.T) {
	clearEnv(t)
	t.Setenv("THRONE_MODE", "gcp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "THRONE_GCP_PROJECT")

	t.Setenv("THRONE_GCP_PROJECT", "throne-prod")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageFirestore, cfg.StorageBackend)
	assert.Equal(t, LLMVertex, cfg.LLMProvider)
}

func TestLoadStripePrices(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("THRONE_STRIPE_PRICE_APPRENTICE", "price_abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "stripe", cfg.BillingProvider())
	assert.Equal(t, map[tier.Name]string{tier.Apprentice: "price_abc"}, cfg.StripePrices)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"storage":       {"THRONE_STORAGE_BACKEND": "postgres"},
		"provider":      {"THRONE_LLM_PROVIDER": "llama"},
		"anthropic key": {"THRONE_LLM_PROVIDER": "anthropic"},
		"openai key":    {"THRONE_LLM_PROVIDER": "openai"},
		"schedule":      {"THRONE_PRUNE_SCHEDULE": "every tuesday"},
		"cache":         {"THRONE_BEHAVIOR_CACHE": "zero"},
		"cache size":    {"THRONE_BEHAVIOR_CACHE": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	t.Setenv("THRONE_TEST_BOOL", "1")
	assert.True(t, getBoolEnv("THRONE_TEST_BOOL", false))
	t.Setenv("THRONE_TEST_BOOL", "no")
	assert.False(t, getBoolEnv("THRONE_TEST_BOOL", true))
	t.Setenv("THRONE_TEST_BOOL", "")
	assert.True(t, getBoolEnv("THRONE_TEST_BOOL", true))
}
