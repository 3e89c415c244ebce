// Package sqlite persists users, sessions, messages, analytics events and
// consent logs in a single SQLite file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

// Store implements every domain store port.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates a SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id               TEXT PRIMARY KEY,
		email            TEXT NOT NULL DEFAULT '',
		tier             TEXT NOT NULL,
		chosen_companion TEXT NOT NULL DEFAULT '',
		features         TEXT NOT NULL DEFAULT '{}',
		subscription_id  TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		last_active      TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		companion_id TEXT NOT NULL,
		title        TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, updated_at DESC);

	CREATE TABLE IF NOT EXISTS messages (
		id           TEXT PRIMARY KEY,
		session_id   TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		companion_id TEXT NOT NULL DEFAULT '',
		author       TEXT NOT NULL,
		text         TEXT NOT NULL,
		mode         TEXT NOT NULL DEFAULT '',
		tier         TEXT NOT NULL DEFAULT '',
		kind         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id, created_at);

	CREATE TABLE IF NOT EXISTS events (
		id         TEXT PRIMARY KEY,
		type       TEXT NOT NULL,
		user_id    TEXT NOT NULL DEFAULT '',
		session_id TEXT NOT NULL DEFAULT '',
		tier       TEXT NOT NULL DEFAULT '',
		companion  TEXT NOT NULL DEFAULT '',
		device     TEXT NOT NULL DEFAULT '',
		region     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		payload    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(type, created_at DESC);

	CREATE TABLE IF NOT EXISTS consent_logs (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		session_id   TEXT NOT NULL,
		consent_type TEXT NOT NULL,
		granted      INTEGER NOT NULL,
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_consent_session ON consent_logs(session_id, consent_type, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// noRows maps sql.ErrNoRows to domain.ErrNotFound.
func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// insertOnce reports domain.ErrAlreadyExists when an INSERT ... ON CONFLICT
// DO NOTHING touched no rows.
func insertOnce(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// updated reports domain.ErrNotFound when an UPDATE matched no rows.
func updated(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
