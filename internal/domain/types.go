package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type UserID string
type SessionID string
type MessageID string
type ConsentID string
type EventID string

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

type Timestamp = time.Time

// ErrNotFound is returned by every store when the requested record is missing.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a record whose ID is taken.
var ErrAlreadyExists = errors.New("already exists")

// ErrInvalidInput marks errors caused by a bad request rather than a fault.
var ErrInvalidInput = errors.New("invalid input")

// NewID returns a random identifier for users, sessions, messages and consent logs.
func NewID() string {
	return uuid.NewString()
}
