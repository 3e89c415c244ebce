package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type ConsentStore struct {
	mu   sync.RWMutex
	logs map[domain.SessionID][]*domain.ConsentLog
}

func NewConsentStore() *ConsentStore {
	return &ConsentStore{
		logs: make(map[domain.SessionID][]*domain.ConsentLog),
	}
}

func (s *ConsentStore) AppendConsent(_ context.Context, c *domain.ConsentLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.logs[c.SessionID] = append(s.logs[c.SessionID], &cp)
	return nil
}

func (s *ConsentStore) LatestConsent(_ context.Context, sessionID domain.SessionID, t domain.ConsentType) (*domain.ConsentLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := s.logs[sessionID]
	for i := len(logs) - 1; i >= 0; i-- {
		if logs[i].Type == t {
			cp := *logs[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
