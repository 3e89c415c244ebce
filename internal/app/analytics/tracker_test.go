package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/adapters/storage/memory"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

type failingStore struct{}

func (failingStore) AppendEvent(context.Context, *domain.Event) error {
	return errors.New("disk full")
}

func (failingStore) ListEvents(context.Context, domain.EventFilter) ([]*domain.Event, error) {
	return nil, nil
}

func TestRecordFillsEnvelope(t *testing.T) {
	store := memory.NewEventStore()
	tr := NewTracker(store)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return at }

	ctx := WithClient(context.Background(), "ios", "eu")
	s := Subject{UserID: "u1", SessionID: "s1", Tier: tier.Apprentice, Companion: "aurora"}
	tr.UpgradeCTAShown(ctx, s, tier.ModeVoice, tier.Regent)

	events, err := tr.Recent(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Len(t, string(ev.ID), 26)
	assert.Equal(t, domain.EventUpgradeCTAShown, ev.Type)
	assert.Equal(t, "ios", ev.Device)
	assert.Equal(t, "eu", ev.Region)
	assert.Equal(t, at, ev.CreatedAt)
	assert.Equal(t, domain.UpgradeCTAShown{Feature: tier.ModeVoice, TargetTier: tier.Regent}, ev.Payload)
}

func TestIDsAreOrdered(t *testing.T) {
	tr := NewTracker(memory.NewEventStore())
	at := time.Now()
	a := tr.newID(at)
	b := tr.newID(at)
	assert.Less(t, string(a), string(b))
}

func TestConsentDecidedPicksType(t *testing.T) {
	store := memory.NewEventStore()
	tr := NewTracker(store)
	ctx := context.Background()

	tr.ConsentDecided(ctx, Subject{UserID: "u"}, domain.ConsentFinance, true)
	tr.ConsentDecided(ctx, Subject{UserID: "u"}, domain.ConsentFinance, false)

	granted, err := tr.Recent(ctx, 10, domain.EventConsentGranted)
	require.NoError(t, err)
	assert.Len(t, granted, 1)

	denied, err := tr.Recent(ctx, 10, domain.EventConsentDenied)
	require.NoError(t, err)
	assert.Len(t, denied, 1)
}

func TestLLMRequestedRecordsFailure(t *testing.T) {
	tr := NewTracker(memory.NewEventStore())
	ev := tr.Record(context.Background(), Subject{}, domain.LLMRequest{})
	assert.Equal(t, domain.EventLLMRequest, ev.Type)

	tr.LLMRequested(context.Background(), Subject{}, "mock", 1500*time.Millisecond, errors.New("timeout"))
	events, err := tr.Recent(context.Background(), 1, domain.EventLLMRequest)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.LLMRequest{Provider: "mock", LatencyMS: 1500, Success: false, Error: "timeout"}, events[0].Payload)
}

func TestStoreFailureDoesNotPanic(t *testing.T) {
	tr := NewTracker(failingStore{})
	assert.NotPanics(t, func() {
		tr.SessionStarted(context.Background(), Subject{UserID: "u"})
	})
}
