package sqlite

import (
	"context"
	"fmt"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

func (s *Store) AppendConsent(ctx context.Context, c *domain.ConsentLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO consent_logs (id, user_id, session_id, consent_type, granted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(c.ID), string(c.UserID), string(c.SessionID), string(c.Type), c.Granted, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert consent: %w", err)
	}
	return nil
}

func (s *Store) LatestConsent(ctx context.Context, sessionID domain.SessionID, t domain.ConsentType) (*domain.ConsentLog, error) {
	var (
		c                 domain.ConsentLog
		id, uid, sid, typ string
		createdAt         string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, session_id, consent_type, granted, created_at
		 FROM consent_logs WHERE session_id = ? AND consent_type = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		string(sessionID), string(t)).Scan(&id, &uid, &sid, &typ, &c.Granted, &createdAt)
	if err != nil {
		return nil, noRows(err)
	}

	c.ID = domain.ConsentID(id)
	c.UserID = domain.UserID(uid)
	c.SessionID = domain.SessionID(sid)
	c.Type = domain.ConsentType(typ)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}
