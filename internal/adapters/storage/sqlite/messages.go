package sqlite

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

func (s *Store) AppendMessage(ctx context.Context, m *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, user_id, companion_id, author, text, mode, tier, kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(m.ID), string(m.SessionID), string(m.UserID), m.CompanionID, string(m.Author),
		m.Text, string(m.Mode), string(m.Tier), string(m.Kind), formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// GetMessagesBySession returns the newest limit messages, oldest first.
// Ties on created_at fall back to insertion order.
func (s *Store) GetMessagesBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_id, companion_id, author, text, mode, tier, kind, created_at
		 FROM messages WHERE session_id = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, string(sessionID), limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var (
			m                                   domain.Message
			id, sid, uid, author, mode, t, kind string
			createdAt                           string
		)
		if err := rows.Scan(&id, &sid, &uid, &m.CompanionID, &author, &m.Text, &mode, &t, &kind, &createdAt); err != nil {
			return nil, err
		}
		m.ID = domain.MessageID(id)
		m.SessionID = domain.SessionID(sid)
		m.UserID = domain.UserID(uid)
		m.Author = domain.Role(author)
		m.Mode = tier.Mode(mode)
		m.Tier = tier.Name(t)
		m.Kind = domain.MessageKind(kind)
		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(out)
	return out, nil
}

func (s *Store) DeleteMessagesBefore(ctx context.Context, userID domain.UserID, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE user_id = ? AND created_at < ?`,
		string(userID), formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
