// Package analytics records product events with one typed method per event.
package analytics

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

// DefaultRecentLimit is used by Recent when no positive limit is given.
const DefaultRecentLimit = 50

// Subject identifies who an event is about. Empty fields are omitted.
type Subject struct {
	UserID    domain.UserID
	SessionID domain.SessionID
	Tier      tier.Name
	Companion string
}

type clientKey struct{}

type client struct {
	device string
	region string
}

// WithClient attaches the caller's device and region to ctx so every event
// recorded while serving the request carries them.
func WithClient(ctx context.Context, device, region string) context.Context {
	return context.WithValue(ctx, clientKey{}, client{device: device, region: region})
}

// Tracker writes events to an EventStore. Storage errors are logged and
// swallowed so analytics never fails a user request.
type Tracker struct {
	store domain.EventStore
	now   func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewTracker(store domain.EventStore) *Tracker {
	return &Tracker{
		store:   store,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (t *Tracker) newID(at time.Time) domain.EventID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return domain.EventID(ulid.MustNew(ulid.Timestamp(at), t.entropy).String())
}

// Record stores an event built from s and p. It returns the stored event.
func (t *Tracker) Record(ctx context.Context, s Subject, p domain.EventPayload) *domain.Event {
	now := t.now().UTC()
	ev := &domain.Event{
		ID:        t.newID(now),
		Type:      p.EventType(),
		UserID:    s.UserID,
		SessionID: s.SessionID,
		Tier:      s.Tier,
		Companion: s.Companion,
		CreatedAt: now,
		Payload:   p,
	}
	if c, ok := ctx.Value(clientKey{}).(client); ok {
		ev.Device = c.device
		ev.Region = c.region
	}

	if err := t.store.AppendEvent(ctx, ev); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to record event",
			"event_type", ev.Type,
			"error", err,
		)
	}
	return ev
}

func (t *Tracker) SessionStarted(ctx context.Context, s Subject) {
	t.Record(ctx, s, domain.SessionStart{CompanionID: s.Companion})
}

func (t *Tracker) MessageSent(ctx context.Context, s Subject, mode tier.Mode, kind domain.MessageKind, length int) {
	t.Record(ctx, s, domain.MessageSent{Mode: mode, Kind: kind, Length: length})
}

func (t *Tracker) UpgradeCTAShown(ctx context.Context, s Subject, feature tier.Mode, target tier.Name) {
	t.Record(ctx, s, domain.UpgradeCTAShown{Feature: feature, TargetTier: target})
}

func (t *Tracker) UpgradeAttempted(ctx context.Context, s Subject, target tier.Name, checkoutID, provider string) {
	t.Record(ctx, s, domain.UpgradeAttempt{TargetTier: target, CheckoutID: checkoutID, Provider: provider})
}

func (t *Tracker) UpgradeSucceeded(ctx context.Context, s Subject, target tier.Name, subscriptionID string) {
	t.Record(ctx, s, domain.UpgradeSuccess{TargetTier: target, SubscriptionID: subscriptionID})
}

func (t *Tracker) TierChanged(ctx context.Context, s Subject, from, to tier.Name, reason string) {
	t.Record(ctx, s, domain.TierChange{From: from, To: to, Reason: reason})
}

func (t *Tracker) SolicitationShown(ctx context.Context, s Subject, persona string, questions int) {
	t.Record(ctx, s, domain.SolicitationShown{Persona: persona, Questions: questions})
}

func (t *Tracker) ConsentRequested(ctx context.Context, s Subject, c domain.ConsentType) {
	t.Record(ctx, s, domain.ConsentRequested{Consent: c})
}

// ConsentDecided records consent_granted or consent_denied.
func (t *Tracker) ConsentDecided(ctx context.Context, s Subject, c domain.ConsentType, granted bool) {
	if granted {
		t.Record(ctx, s, domain.ConsentGranted{Consent: c})
		return
	}
	t.Record(ctx, s, domain.ConsentDenied{Consent: c})
}

func (t *Tracker) LLMRequested(ctx context.Context, s Subject, provider string, latency time.Duration, err error) {
	p := domain.LLMRequest{
		Provider:  provider,
		LatencyMS: latency.Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		p.Error = err.Error()
	}
	t.Record(ctx, s, p)
}

func (t *Tracker) MemoryPruned(ctx context.Context, s Subject, deleted int, cutoff time.Time) {
	t.Record(ctx, s, domain.MemoryPrune{Deleted: deleted, Cutoff: cutoff})
}

func (t *Tracker) APIError(ctx context.Context, route string, status int, msg string) {
	t.Record(ctx, Subject{}, domain.APIError{Route: route, Status: status, Message: msg})
}

// Recent lists stored events newest first, optionally restricted to one type.
func (t *Tracker) Recent(ctx context.Context, limit int, eventType domain.EventType) ([]*domain.Event, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return t.store.ListEvents(ctx, domain.EventFilter{Type: eventType, Limit: limit})
}
