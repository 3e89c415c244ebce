package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

func (s *Store) AppendEvent(ctx context.Context, ev *domain.Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", ev.Type, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, type, user_id, session_id, tier, companion, device, region, created_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(ev.ID), string(ev.Type), string(ev.UserID), string(ev.SessionID), string(ev.Tier),
		ev.Companion, ev.Device, ev.Region, formatTime(ev.CreatedAt), string(payload))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns matching events, newest first.
func (s *Store) ListEvents(ctx context.Context, f domain.EventFilter) ([]*domain.Event, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, string(f.UserID))
	}

	query := `SELECT id, type, user_id, session_id, tier, companion, device, region, created_at, payload FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var (
			ev                   domain.Event
			id, typ, uid, sid, t string
			createdAt, payload   string
		)
		if err := rows.Scan(&id, &typ, &uid, &sid, &t, &ev.Companion, &ev.Device, &ev.Region, &createdAt, &payload); err != nil {
			return nil, err
		}
		ev.ID = domain.EventID(id)
		ev.Type = domain.EventType(typ)
		ev.UserID = domain.UserID(uid)
		ev.SessionID = domain.SessionID(sid)
		ev.Tier = tier.Name(t)
		if ev.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if ev.Payload, err = domain.DecodePayload(ev.Type, []byte(payload)); err != nil {
			return nil, err
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}
