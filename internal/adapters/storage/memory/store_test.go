package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

func TestSessionStoreNotFound(t *testing.T) {
	s := NewSessionStore()
	_, err := s.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.UpdateSession(context.Background(), &domain.Session{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStoreRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	require.NoError(t, s.CreateSession(ctx, &domain.Session{ID: "s1"}))
	assert.ErrorIs(t, s.CreateSession(ctx, &domain.Session{ID: "s1"}), domain.ErrAlreadyExists)
}

func TestSessionStoreListOrdersByUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateSession(ctx, &domain.Session{ID: "old", UserID: "u", UpdatedAt: base}))
	require.NoError(t, s.CreateSession(ctx, &domain.Session{ID: "new", UserID: "u", UpdatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.CreateSession(ctx, &domain.Session{ID: "other", UserID: "v", UpdatedAt: base}))

	got, err := s.ListSessionsByUser(ctx, "u", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SessionID("new"), got[0].ID)
}

func TestMessageStoreLimitAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.AppendMessage(ctx, &domain.Message{
			ID:        domain.MessageID(string(rune('a' + i))),
			SessionID: "s1",
			UserID:    "u",
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}
	require.NoError(t, s.AppendMessage(ctx, &domain.Message{ID: "z", SessionID: "s2", UserID: "other", CreatedAt: base}))

	last, err := s.GetMessagesBySession(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, domain.MessageID("c"), last[0].ID)
	assert.Equal(t, domain.MessageID("d"), last[1].ID)

	n, err := s.DeleteMessagesBefore(ctx, "u", base.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rest, err := s.GetMessagesBySession(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	other, err := s.GetMessagesBySession(ctx, "s2", 0)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestUserStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	u := &domain.User{ID: "u1", Tier: tier.Novice}
	require.NoError(t, s.CreateUser(ctx, u))
	u.Tier = tier.Sovereign

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, tier.Novice, got.Tier)

	_, err = s.GetUser(ctx, "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventStoreFilters(t *testing.T) {
	ctx := context.Background()
	s := NewEventStore()
	require.NoError(t, s.AppendEvent(ctx, &domain.Event{ID: "1", Type: domain.EventMessageSent, UserID: "u"}))
	require.NoError(t, s.AppendEvent(ctx, &domain.Event{ID: "2", Type: domain.EventTierChange, UserID: "u"}))
	require.NoError(t, s.AppendEvent(ctx, &domain.Event{ID: "3", Type: domain.EventMessageSent, UserID: "v"}))

	all, err := s.ListEvents(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.EventID("3"), all[0].ID)

	sent, err := s.ListEvents(ctx, domain.EventFilter{Type: domain.EventMessageSent, Limit: 1})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.EventID("3"), sent[0].ID)

	byUser, err := s.ListEvents(ctx, domain.EventFilter{UserID: "u"})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
}

func TestConsentStoreLatest(t *testing.T) {
	ctx := context.Background()
	s := NewConsentStore()
	require.NoError(t, s.AppendConsent(ctx, &domain.ConsentLog{ID: "1", SessionID: "s", Type: domain.ConsentTherapy, Granted: true}))
	require.NoError(t, s.AppendConsent(ctx, &domain.ConsentLog{ID: "2", SessionID: "s", Type: domain.ConsentTherapy, Granted: false}))

	got, err := s.LatestConsent(ctx, "s", domain.ConsentTherapy)
	require.NoError(t, err)
	assert.False(t, got.Granted)

	_, err = s.LatestConsent(ctx, "s", domain.ConsentFinance)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
