package sqlite

import (
	"context"
	"fmt"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

const sessionColumns = `id, user_id, companion_id, title, created_at, updated_at`

func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	err := insertOnce(s.db.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		string(sess.ID), string(sess.UserID), sess.CompanionID, sess.Title,
		formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt)))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, sess *domain.Session) error {
	err := updated(s.db.ExecContext(ctx,
		`UPDATE sessions SET companion_id = ?, title = ?, updated_at = ? WHERE id = ?`,
		sess.CompanionID, sess.Title, formatTime(sess.UpdatedAt), string(sess.ID)))
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, string(id))
	sess, err := scanSession(row)
	if err != nil {
		return nil, noRows(err)
	}
	return sess, nil
}

func (s *Store) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ?
		 ORDER BY updated_at DESC LIMIT ?`, string(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func scanSession(sc scanner) (*domain.Session, error) {
	var (
		sess                 domain.Session
		id, userID           string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&id, &userID, &sess.CompanionID, &sess.Title, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	sess.ID = domain.SessionID(id)
	sess.UserID = domain.UserID(userID)

	var err error
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}
