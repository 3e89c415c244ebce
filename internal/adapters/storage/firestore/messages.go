package firestore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

type messageDoc struct {
	SessionID   string    `firestore:"session_id"`
	UserID      string    `firestore:"user_id"`
	CompanionID string    `firestore:"companion_id"`
	Author      string    `firestore:"author"`
	Text        string    `firestore:"text"`
	Mode        string    `firestore:"mode"`
	Tier        string    `firestore:"tier"`
	Kind        string    `firestore:"kind"`
	CreatedAt   time.Time `firestore:"created_at"`
}

func toMessageDoc(m *domain.Message) messageDoc {
	return messageDoc{
		SessionID:   string(m.SessionID),
		UserID:      string(m.UserID),
		CompanionID: m.CompanionID,
		Author:      string(m.Author),
		Text:        m.Text,
		Mode:        string(m.Mode),
		Tier:        string(m.Tier),
		Kind:        string(m.Kind),
		CreatedAt:   m.CreatedAt,
	}
}

func (d messageDoc) toDomain(id string) *domain.Message {
	return &domain.Message{
		ID:          domain.MessageID(id),
		SessionID:   domain.SessionID(d.SessionID),
		UserID:      domain.UserID(d.UserID),
		CompanionID: d.CompanionID,
		Author:      domain.Role(d.Author),
		Text:        d.Text,
		Mode:        tier.Mode(d.Mode),
		Tier:        tier.Name(d.Tier),
		Kind:        domain.MessageKind(d.Kind),
		CreatedAt:   d.CreatedAt,
	}
}

func decodeMessage(snap *firestore.DocumentSnapshot) (*domain.Message, error) {
	var doc messageDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain(snap.Ref.ID), nil
}

func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	_, err := s.messagesCol(msg.SessionID).Doc(string(msg.ID)).Set(ctx, toMessageDoc(msg))
	if err != nil {
		return mapError("AppendMessage", err)
	}
	return nil
}

// GetMessagesBySession reads the newest limit messages and returns them
// oldest first.
func (s *Store) GetMessagesBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	q := s.messagesCol(sessionID).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	out, err := collect(q.Documents(ctx), "GetMessagesBySession", decodeMessage)
	if err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

// DeleteMessagesBefore queries the messages collection group, so it needs a
// composite index on (user_id, created_at).
func (s *Store) DeleteMessagesBefore(ctx context.Context, userID domain.UserID, cutoff time.Time) (int, error) {
	iter := s.client.CollectionGroup(colMessages).
		Where("user_id", "==", string(userID)).
		Where("created_at", "<", cutoff).
		Documents(ctx)

	refs, err := collect(iter, "DeleteMessagesBefore", func(snap *firestore.DocumentSnapshot) (*firestore.DocumentRef, error) {
		return snap.Ref, nil
	})
	if err != nil {
		return 0, err
	}
	if len(refs) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return 0, fmt.Errorf("firestore DeleteMessagesBefore: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	deleted := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return deleted, mapError("DeleteMessagesBefore", err)
		}
		deleted++
	}
	return deleted, nil
}
