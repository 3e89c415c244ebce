package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/config"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

const shippedConfig = "../../configs/solicitation.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Mode:               config.ModeLocal,
		Port:               "0",
		LLMProvider:        config.LLMMock,
		StorageBackend:     config.StorageMemory,
		SolicitationConfig: shippedConfig,
		StripePrices:       map[tier.Name]string{tier.Regent: "price_sandbox_regent"},
		SandboxAutoPay:     true,
		FrontendURL:        "http://localhost:3000",
		PruneSchedule:      "@hourly",
		LogLevel:           "error",
		BehaviorCache:      16,
	}
}

func TestTiersCommand(t *testing.T) {
	out, err := run(t, "tiers")
	require.NoError(t, err)

	var got struct {
		Tiers        []tier.Definition    `json:"tiers"`
		Requirements map[tier.Mode]string `json:"requirements"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Tiers, 4)
	assert.Equal(t, "apprentice", got.Requirements[tier.ModeVoice])
}

func TestPromptCommand(t *testing.T) {
	out, err := run(t, "prompt", "--tier", "apprentice", "--companion", "aurora", "--voice")
	require.NoError(t, err)

	var got struct {
		AllowedModes []string `json:"allowed_modes"`
		CompanionID  string   `json:"companion_id"`
		Tier         string   `json:"tier"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"text", "voice"}, got.AllowedModes)
	assert.Equal(t, "aurora", got.CompanionID)
	assert.Equal(t, "apprentice", got.Tier)
}

func TestPromptSystemOnlyIsDeterministic(t *testing.T) {
	first, err := run(t, "prompt", "--tier", "novice", "--system-only")
	require.NoError(t, err)
	second, err := run(t, "prompt", "--tier", "novice", "--system-only")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, strings.HasPrefix(first, "{"))
}

func TestSolicitCommand(t *testing.T) {
	out, err := run(t, "solicit", "--config", shippedConfig, "--persona", "vanessa", "--text", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, `"is_vague": true`)
	assert.Contains(t, out, `"tag": "Throne Companions"`)

	out, err = run(t, "solicit", "--config", shippedConfig, "--text", "Plan a calm evening routine for my week", "--intent", "0.9")
	require.NoError(t, err)
	assert.Contains(t, out, `"is_vague": false`)

	_, err = run(t, "solicit", "--config", shippedConfig, "--persona", "cassian", "--text", "hi")
	assert.Error(t, err)

	_, err = run(t, "solicit", "--config", shippedConfig)
	assert.Error(t, err)
}

func TestServeFlagsOverrideConfig(t *testing.T) {
	cmd := newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9090", "--watch"}))

	var opts serveOptions
	opts.port, _ = cmd.Flags().GetString("port")
	opts.watch, _ = cmd.Flags().GetBool("watch")

	cfg := testConfig(t)
	opts.apply(cmd, cfg)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.WatchConfig)
	assert.Equal(t, shippedConfig, cfg.SolicitationConfig)
}

func TestBuildServesAPI(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	job := app.PruneJob("@hourly")
	assert.Equal(t, "memory_prune", job.Name)
	assert.NoError(t, job.Run(context.Background()))
}

func TestBuildWithSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageBackend = config.StorageSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "throne.db")

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	w := httptest.NewRecorder()
	app.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"a@b.c"}`)))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBuildFailsOnBadSolicitationConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.SolicitationConfig = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, true) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop")
	}
}
