package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

const userColumns = `id, email, tier, chosen_companion, features, subscription_id, created_at, last_active`

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	features, err := json.Marshal(u.Features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	err = insertOnce(s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		string(u.ID), u.Email, string(u.Tier), u.ChosenCompanion, string(features),
		u.SubscriptionID, formatTime(u.CreatedAt), formatTime(u.LastActive)))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	features, err := json.Marshal(u.Features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	err = updated(s.db.ExecContext(ctx,
		`UPDATE users SET email = ?, tier = ?, chosen_companion = ?, features = ?,
		        subscription_id = ?, last_active = ?
		 WHERE id = ?`,
		u.Email, string(u.Tier), u.ChosenCompanion, string(features),
		u.SubscriptionID, formatTime(u.LastActive), string(u.ID)))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, string(id))
	u, err := scanUser(row)
	if err != nil {
		return nil, noRows(err)
	}
	return u, nil
}

// ListUsers returns every user ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(sc scanner) (*domain.User, error) {
	var (
		u                   domain.User
		id, t, features     string
		createdAt, lastSeen string
	)
	if err := sc.Scan(&id, &u.Email, &t, &u.ChosenCompanion, &features, &u.SubscriptionID, &createdAt, &lastSeen); err != nil {
		return nil, err
	}
	u.ID = domain.UserID(id)
	u.Tier = tier.Name(t)
	if err := json.Unmarshal([]byte(features), &u.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.LastActive, err = parseTime(lastSeen); err != nil {
		return nil, err
	}
	return &u, nil
}
