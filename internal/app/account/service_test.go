package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/adapters/storage/memory"
	"github.com/PabloGalante/throne-companions/internal/app/account"
	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

func newService(t *testing.T) (*account.Service, *memory.EventStore) {
	t.Helper()
	events := memory.NewEventStore()
	cache, err := behavior.NewCache(0)
	require.NoError(t, err)
	return account.NewService(memory.NewUserStore(), analytics.NewTracker(events), cache), events
}

func strPtr(s string) *string { return &s }

func TestRegisterDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, account.RegisterInput{Email: " a@b.c "})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@b.c", u.Email)
	assert.Equal(t, tier.Novice, u.Tier)
	assert.Equal(t, "sophia", u.ChosenCompanion)
	assert.WithinDuration(t, time.Now(), u.CreatedAt, time.Minute)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestRegisterRejectsUnknownValues(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, account.RegisterInput{Tier: "platinum"})
	assert.ErrorIs(t, err, account.ErrInvalidTier)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, account.RegisterInput{Companion: "cassian"})
	assert.ErrorIs(t, err, account.ErrUnknownCompanion)
}

func TestUpdateTierRecordsEvent(t *testing.T) {
	svc, events := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, account.RegisterInput{Tier: "apprentice", Companion: "Aurora"})
	require.NoError(t, err)
	assert.Equal(t, "aurora", u.ChosenCompanion)

	features := tier.Features{Voice: true, Visuals: true}
	updated, err := svc.Update(ctx, u.ID, account.UpdateInput{Tier: strPtr("regent"), Features: &features})
	require.NoError(t, err)
	assert.Equal(t, tier.Regent, updated.Tier)
	assert.Equal(t, features, updated.Features)
	assert.Equal(t, "aurora", updated.ChosenCompanion)

	evs, err := events.ListEvents(ctx, domain.EventFilter{Type: domain.EventTierChange})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, domain.TierChange{From: tier.Apprentice, To: tier.Regent, Reason: "account_update"}, evs[0].Payload)
}

func TestUpdateWithoutTierChangeRecordsNothing(t *testing.T) {
	svc, events := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, account.RegisterInput{})
	require.NoError(t, err)
	_, err = svc.Update(ctx, u.ID, account.UpdateInput{Companion: strPtr("vanessa"), Tier: strPtr("novice")})
	require.NoError(t, err)

	evs, err := events.ListEvents(ctx, domain.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, evs)
}

func TestUpdateErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "missing", account.UpdateInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err := svc.Register(ctx, account.RegisterInput{})
	require.NoError(t, err)
	_, err = svc.Update(ctx, u.ID, account.UpdateInput{Tier: strPtr("gold")})
	assert.ErrorIs(t, err, account.ErrInvalidTier)
}

func TestBehavior(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, account.RegisterInput{Tier: "sovereign", Companion: "vanessa"})
	require.NoError(t, err)

	cfg, err := svc.Behavior(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, behavior.Assemble(account.UserContext(u)), cfg)
	assert.True(t, cfg.MemoryPolicy.Unlimited)

	_, err = svc.Behavior(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetTier(t *testing.T) {
	svc, events := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, account.RegisterInput{})
	require.NoError(t, err)

	updated, err := svc.SetTier(ctx, u.ID, tier.Sovereign, "sub_123", "billing")
	require.NoError(t, err)
	assert.Equal(t, "sub_123", updated.SubscriptionID)

	evs, err := events.ListEvents(ctx, domain.EventFilter{Type: domain.EventTierChange})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, tier.Sovereign, evs[0].Tier)
}
