package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

// Store implements every domain store port on a single Firestore database.
// Messages live in a subcollection of their session.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for projectID.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

const (
	colUsers    = "users"
	colSessions = "sessions"
	colMessages = "messages"
	colEvents   = "events"
	colConsent  = "consent_logs"
)

func (s *Store) userDoc(id domain.UserID) *firestore.DocumentRef {
	return s.client.Collection(colUsers).Doc(string(id))
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection(colSessions)
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) messagesCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionDoc(sessionID).Collection(colMessages)
}

// mapError turns gRPC status codes into domain sentinels.
func mapError(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return domain.ErrNotFound
	case codes.AlreadyExists:
		return domain.ErrAlreadyExists
	}
	return fmt.Errorf("firestore %s: %w", op, err)
}

// collect drains a query iterator, decoding each document with fn.
func collect[T any](iter *firestore.DocumentIterator, op string, fn func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	defer iter.Stop()

	var out []T
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError(op, err)
		}

		v, err := fn(snap)
		if err != nil {
			return nil, fmt.Errorf("firestore %s decode: %w", op, err)
		}
		out = append(out, v)
	}
	return out, nil
}
