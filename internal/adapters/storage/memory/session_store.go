package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

func (s *SessionStore) CreateSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return domain.ErrAlreadyExists
	}

	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *SessionStore) UpdateSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; !exists {
		return domain.ErrNotFound
	}

	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *sess
	return &cp, nil
}

// ListSessionsByUser returns the user's sessions, most recently updated first.
func (s *SessionStore) ListSessionsByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Session
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			cp := *sess
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
