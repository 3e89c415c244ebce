package solicitation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestReloaderFailsOnInvalidStartupConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solicitation.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui: {max_questions: 0}\n"), 0o644))

	_, err := NewReloader(path, nil)
	assert.Error(t, err)
}

func TestReloaderPicksUpChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "solicitation.yaml")
	require.NoError(t, os.WriteFile(path, configDoc("first"), 0o644))

	r, err := NewReloader(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", r.Engine().Config().UI.BrandTag)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, configDoc("second"), 0o644)
		return r.Engine().Config().UI.BrandTag == "second"
	}, 5*time.Second, 50*time.Millisecond)

	// A broken file keeps the last good engine.
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "second", r.Engine().Config().UI.BrandTag)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
