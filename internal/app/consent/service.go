// Package consent records per-session consent decisions for sensitive
// topics.
package consent

import (
	"context"
	"errors"
	"time"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
)

type Service struct {
	store   domain.ConsentStore
	tracker *analytics.Tracker
	now     func() time.Time
}

func NewService(store domain.ConsentStore, tracker *analytics.Tracker) *Service {
	return &Service{store: store, tracker: tracker, now: time.Now}
}

// Request records that the user was asked for consent.
func (s *Service) Request(ctx context.Context, userID domain.UserID, sessionID domain.SessionID, t domain.ConsentType) {
	s.tracker.ConsentRequested(ctx, analytics.Subject{UserID: userID, SessionID: sessionID}, t)
}

// Record stores the user's decision.
func (s *Service) Record(ctx context.Context, userID domain.UserID, sessionID domain.SessionID, t domain.ConsentType, granted bool) (*domain.ConsentLog, error) {
	entry := &domain.ConsentLog{
		ID:        domain.ConsentID(domain.NewID()),
		UserID:    userID,
		SessionID: sessionID,
		Type:      t,
		Granted:   granted,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.AppendConsent(ctx, entry); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to record consent",
			"user_id", userID,
			"session_id", sessionID,
			"error", err,
		)
		return nil, err
	}

	s.tracker.ConsentDecided(ctx, analytics.Subject{UserID: userID, SessionID: sessionID}, t, granted)
	return entry, nil
}

// Granted reports the latest decision for t in the session. No decision
// means no consent.
func (s *Service) Granted(ctx context.Context, sessionID domain.SessionID, t domain.ConsentType) (bool, error) {
	entry, err := s.store.LatestConsent(ctx, sessionID, t)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return entry.Granted, nil
}
