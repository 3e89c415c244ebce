package consent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/adapters/storage/memory"
	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/app/consent"
	"github.com/PabloGalante/throne-companions/internal/domain"
)

func TestConsentFlow(t *testing.T) {
	ctx := context.Background()
	events := memory.NewEventStore()
	svc := consent.NewService(memory.NewConsentStore(), analytics.NewTracker(events))

	granted, err := svc.Granted(ctx, "s1", domain.ConsentFinance)
	require.NoError(t, err)
	assert.False(t, granted)

	svc.Request(ctx, "u1", "s1", domain.ConsentFinance)
	entry, err := svc.Record(ctx, "u1", "s1", domain.ConsentFinance, true)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	granted, err = svc.Granted(ctx, "s1", domain.ConsentFinance)
	require.NoError(t, err)
	assert.True(t, granted)

	// Consent does not carry over to other sessions or topics.
	granted, err = svc.Granted(ctx, "s2", domain.ConsentFinance)
	require.NoError(t, err)
	assert.False(t, granted)
	granted, err = svc.Granted(ctx, "s1", domain.ConsentTherapy)
	require.NoError(t, err)
	assert.False(t, granted)

	_, err = svc.Record(ctx, "u1", "s1", domain.ConsentFinance, false)
	require.NoError(t, err)
	granted, err = svc.Granted(ctx, "s1", domain.ConsentFinance)
	require.NoError(t, err)
	assert.False(t, granted)

	evs, err := events.ListEvents(ctx, domain.EventFilter{})
	require.NoError(t, err)
	types := make([]domain.EventType, 0, len(evs))
	for _, ev := range evs {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []domain.EventType{
		domain.EventConsentDenied,
		domain.EventConsentGranted,
		domain.EventConsentRequested,
	}, types)
}
