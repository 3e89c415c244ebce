package firestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

var (
	_ domain.UserStore    = (*Store)(nil)
	_ domain.SessionStore = (*Store)(nil)
	_ domain.MessageStore = (*Store)(nil)
	_ domain.EventStore   = (*Store)(nil)
	_ domain.ConsentStore = (*Store)(nil)
)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError("Get", status.Error(codes.NotFound, "gone")), domain.ErrNotFound)
	assert.ErrorIs(t, mapError("Create", status.Error(codes.AlreadyExists, "dup")), domain.ErrAlreadyExists)

	boom := errors.New("boom")
	err := mapError("Get", boom)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "firestore Get")
}

func TestNewStoreRequiresProject(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	assert.Error(t, err)
}

func TestUserDocRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &domain.User{
		ID:              "u1",
		Email:           "a@b.c",
		Tier:            tier.Regent,
		ChosenCompanion: "sophia",
		Features:        tier.Features{Voice: true},
		SubscriptionID:  "sub_1",
		CreatedAt:       now,
		LastActive:      now.Add(time.Minute),
	}
	got := toUserDoc(u).toDomain("u1")
	if diff := cmp.Diff(u, got); diff != "" {
		t.Errorf("user round trip (-want +got):\n%s", diff)
	}
}

func TestMessageDocRoundTrip(t *testing.T) {
	m := &domain.Message{
		ID:          "m1",
		SessionID:   "s1",
		UserID:      "u1",
		CompanionID: "aurora",
		Author:      domain.RoleAgent,
		Text:        "hello",
		Mode:        tier.ModeText,
		Tier:        tier.Novice,
		Kind:        domain.KindUpgradeCTA,
		CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	got := toMessageDoc(m).toDomain("m1")
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("message round trip (-want +got):\n%s", diff)
	}
}

func TestEventDocRoundTrip(t *testing.T) {
	ev := &domain.Event{
		ID:        "01HX",
		Type:      domain.EventTierChange,
		UserID:    "u1",
		Tier:      tier.Regent,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Payload:   domain.TierChange{From: tier.Novice, To: tier.Regent, Reason: "upgrade"},
	}
	doc, err := toEventDoc(ev)
	require.NoError(t, err)

	got, err := doc.toDomain("01HX")
	require.NoError(t, err)
	if diff := cmp.Diff(ev, got); diff != "" {
		t.Errorf("event round trip (-want +got):\n%s", diff)
	}
}

// TestEmulator runs against a local Firestore emulator when one is configured.
func TestEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()

	s, err := NewStore(ctx, "throne-test")
	require.NoError(t, err)
	defer s.Close()

	uid := domain.UserID(domain.NewID())
	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: uid, Tier: tier.Novice, CreatedAt: time.Now().UTC()}))
	assert.ErrorIs(t, s.CreateUser(ctx, &domain.User{ID: uid}), domain.ErrAlreadyExists)

	_, err = s.GetUser(ctx, "missing-"+uid)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sid := domain.SessionID(domain.NewID())
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.AppendMessage(ctx, &domain.Message{
			ID:        domain.MessageID(domain.NewID()),
			SessionID: sid,
			UserID:    uid,
			Text:      string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	msgs, err := s.GetMessagesBySession(ctx, sid, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[0].Text)
	assert.Equal(t, "c", msgs[1].Text)

	_, err = s.LatestConsent(ctx, sid, domain.ConsentTherapy)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
