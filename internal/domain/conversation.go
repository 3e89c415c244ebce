package domain

import "github.com/PabloGalante/throne-companions/internal/tier"

// MessageKind tells the client how to render a message.
type MessageKind string

const (
	KindText            MessageKind = "text"
	KindUpgradeCTA      MessageKind = "upgrade_cta"
	KindSolicitation    MessageKind = "solicitation"
	KindFeatureDisabled MessageKind = "feature_disabled"
)

// Message represents any message in a timeline (user or agent)
type Message struct {
	ID          MessageID   `json:"id"`
	SessionID   SessionID   `json:"session_id"`
	UserID      UserID      `json:"user_id"`
	CompanionID string      `json:"companion_id"`
	Author      Role        `json:"author"`
	Text        string      `json:"text"`
	Mode        tier.Mode   `json:"mode"`
	Tier        tier.Name   `json:"tier"`
	Kind        MessageKind `json:"kind"`
	CreatedAt   Timestamp   `json:"created_at"`
}

// Session is one conversation between a user and a single companion.
type Session struct {
	ID          SessionID `json:"id"`
	UserID      UserID    `json:"user_id"`
	CompanionID string    `json:"companion_id"`
	Title       string    `json:"title"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}
