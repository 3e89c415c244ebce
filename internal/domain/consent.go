package domain

import "fmt"

type ConsentType string

const (
	ConsentIntimacy ConsentType = "intimacy"
	ConsentTherapy  ConsentType = "therapy"
	ConsentFinance  ConsentType = "finance"
)

// ParseConsentType validates a consent type coming from a client.
func ParseConsentType(s string) (ConsentType, error) {
	switch c := ConsentType(s); c {
	case ConsentIntimacy, ConsentTherapy, ConsentFinance:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown consent type %q", ErrInvalidInput, s)
}

// ConsentLog records a user's answer to a consent prompt within a session.
type ConsentLog struct {
	ID        ConsentID   `json:"id"`
	UserID    UserID      `json:"user_id"`
	SessionID SessionID   `json:"session_id"`
	Type      ConsentType `json:"type"`
	Granted   bool        `json:"granted"`
	CreatedAt Timestamp   `json:"created_at"`
}
