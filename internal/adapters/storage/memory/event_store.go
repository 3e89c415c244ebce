package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

// EventStore keeps analytics events in insertion order.
type EventStore struct {
	mu     sync.RWMutex
	events []*domain.Event
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) AppendEvent(_ context.Context, ev *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *ev
	s.events = append(s.events, &cp)
	return nil
}

func (s *EventStore) ListEvents(_ context.Context, f domain.EventFilter) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Event
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if f.Type != "" && ev.Type != f.Type {
			continue
		}
		if f.UserID != "" && ev.UserID != f.UserID {
			continue
		}
		cp := *ev
		out = append(out, &cp)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}
