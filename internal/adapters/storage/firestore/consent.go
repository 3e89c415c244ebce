package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type consentDoc struct {
	UserID    string    `firestore:"user_id"`
	SessionID string    `firestore:"session_id"`
	Type      string    `firestore:"consent_type"`
	Granted   bool      `firestore:"granted"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (s *Store) AppendConsent(ctx context.Context, c *domain.ConsentLog) error {
	doc := consentDoc{
		UserID:    string(c.UserID),
		SessionID: string(c.SessionID),
		Type:      string(c.Type),
		Granted:   c.Granted,
		CreatedAt: c.CreatedAt,
	}
	if _, err := s.client.Collection(colConsent).Doc(string(c.ID)).Set(ctx, doc); err != nil {
		return mapError("AppendConsent", err)
	}
	return nil
}

func (s *Store) LatestConsent(ctx context.Context, sessionID domain.SessionID, t domain.ConsentType) (*domain.ConsentLog, error) {
	iter := s.client.Collection(colConsent).
		Where("session_id", "==", string(sessionID)).
		Where("consent_type", "==", string(t)).
		OrderBy("created_at", firestore.Desc).
		Limit(1).
		Documents(ctx)

	logs, err := collect(iter, "LatestConsent", func(snap *firestore.DocumentSnapshot) (*domain.ConsentLog, error) {
		var doc consentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		return &domain.ConsentLog{
			ID:        domain.ConsentID(snap.Ref.ID),
			UserID:    domain.UserID(doc.UserID),
			SessionID: domain.SessionID(doc.SessionID),
			Type:      domain.ConsentType(doc.Type),
			Granted:   doc.Granted,
			CreatedAt: doc.CreatedAt,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, domain.ErrNotFound
	}
	return logs[0], nil
}
