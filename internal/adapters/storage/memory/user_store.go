package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[domain.UserID]*domain.User),
	}
}

func (s *UserStore) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return domain.ErrAlreadyExists
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *UserStore) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; !exists {
		return domain.ErrNotFound
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *UserStore) GetUser(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// ListUsers returns every user ordered by creation time.
func (s *UserStore) ListUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
