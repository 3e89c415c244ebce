package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

func badQuery(name, value string) error {
	return fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidInput, name, value)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, badQuery("limit", v))
			return
		}
		limit = n
	}

	eventType := domain.EventType(q.Get("type"))
	if eventType != "" && !eventType.Known() {
		s.writeError(w, r, badQuery("type", string(eventType)))
		return
	}

	events, err := s.tracker.Recent(r.Context(), limit, eventType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
