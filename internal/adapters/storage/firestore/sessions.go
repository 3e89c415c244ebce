package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type sessionDoc struct {
	UserID      string    `firestore:"user_id"`
	CompanionID string    `firestore:"companion_id"`
	Title       string    `firestore:"title"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toSessionDoc(sess *domain.Session) sessionDoc {
	return sessionDoc{
		UserID:      string(sess.UserID),
		CompanionID: sess.CompanionID,
		Title:       sess.Title,
		CreatedAt:   sess.CreatedAt,
		UpdatedAt:   sess.UpdatedAt,
	}
}

func (d sessionDoc) toDomain(id string) *domain.Session {
	return &domain.Session{
		ID:          domain.SessionID(id),
		UserID:      domain.UserID(d.UserID),
		CompanionID: d.CompanionID,
		Title:       d.Title,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func decodeSession(snap *firestore.DocumentSnapshot) (*domain.Session, error) {
	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain(snap.Ref.ID), nil
}

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	if _, err := s.sessionDoc(session.ID).Create(ctx, toSessionDoc(session)); err != nil {
		return mapError("CreateSession", err)
	}
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.sessionDoc(session.ID).Update(ctx, []firestore.Update{
		{Path: "companion_id", Value: session.CompanionID},
		{Path: "title", Value: session.Title},
		{Path: "updated_at", Value: session.UpdatedAt},
	})
	if err != nil {
		return mapError("UpdateSession", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		return nil, mapError("GetSession", err)
	}
	return decodeSession(snap)
}

func (s *Store) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	q := s.sessionsCol().Where("user_id", "==", string(userID)).OrderBy("updated_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return collect(q.Documents(ctx), "ListSessionsByUser", decodeSession)
}
