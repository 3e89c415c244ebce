package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { _ = SetLevel("info") })

	require.NoError(t, SetLevel("DEBUG"))
	assert.Equal(t, slog.LevelDebug, level.Level())

	require.NoError(t, SetLevel("warning"))
	assert.Equal(t, slog.LevelWarn, level.Level())

	assert.Error(t, SetLevel("chatty"))
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Same(t, Logger(), LoggerFromContext(context.Background()))
}
