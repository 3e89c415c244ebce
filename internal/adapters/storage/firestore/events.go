package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

type eventDoc struct {
	Type      string    `firestore:"type"`
	UserID    string    `firestore:"user_id"`
	SessionID string    `firestore:"session_id"`
	Tier      string    `firestore:"tier"`
	Companion string    `firestore:"companion"`
	Device    string    `firestore:"device"`
	Region    string    `firestore:"region"`
	CreatedAt time.Time `firestore:"created_at"`
	// Payload is the JSON encoding of the typed payload.
	Payload string `firestore:"payload"`
}

func toEventDoc(ev *domain.Event) (eventDoc, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return eventDoc{}, fmt.Errorf("encoding %s payload: %w", ev.Type, err)
	}
	return eventDoc{
		Type:      string(ev.Type),
		UserID:    string(ev.UserID),
		SessionID: string(ev.SessionID),
		Tier:      string(ev.Tier),
		Companion: ev.Companion,
		Device:    ev.Device,
		Region:    ev.Region,
		CreatedAt: ev.CreatedAt,
		Payload:   string(payload),
	}, nil
}

func (d eventDoc) toDomain(id string) (*domain.Event, error) {
	payload, err := domain.DecodePayload(domain.EventType(d.Type), []byte(d.Payload))
	if err != nil {
		return nil, err
	}
	return &domain.Event{
		ID:        domain.EventID(id),
		Type:      domain.EventType(d.Type),
		UserID:    domain.UserID(d.UserID),
		SessionID: domain.SessionID(d.SessionID),
		Tier:      tier.Name(d.Tier),
		Companion: d.Companion,
		Device:    d.Device,
		Region:    d.Region,
		CreatedAt: d.CreatedAt,
		Payload:   payload,
	}, nil
}

func (s *Store) AppendEvent(ctx context.Context, ev *domain.Event) error {
	doc, err := toEventDoc(ev)
	if err != nil {
		return err
	}
	if _, err := s.client.Collection(colEvents).Doc(string(ev.ID)).Set(ctx, doc); err != nil {
		return mapError("AppendEvent", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, f domain.EventFilter) ([]*domain.Event, error) {
	q := s.client.Collection(colEvents).Query
	if f.Type != "" {
		q = q.Where("type", "==", string(f.Type))
	}
	if f.UserID != "" {
		q = q.Where("user_id", "==", string(f.UserID))
	}
	q = q.OrderBy("created_at", firestore.Desc)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	return collect(q.Documents(ctx), "ListEvents", func(snap *firestore.DocumentSnapshot) (*domain.Event, error) {
		var doc eventDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		return doc.toDomain(snap.Ref.ID)
	})
}
