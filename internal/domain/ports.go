package domain

import (
	"context"
	"time"

	"github.com/PabloGalante/throne-companions/internal/tier"
)

// GenerationRequest is everything an LLM provider needs for one reply.
type GenerationRequest struct {
	SessionID    SessionID
	UserID       UserID
	SystemPrompt string
	// Preface carries clarification answers and is prepended to UserMessage.
	Preface     string
	UserMessage string
	History     []*Message // for the MVP, last N interactions
	MaxTokens   int
}

// LLMClient defines how the core application interacts with an LLM service.
type LLMClient interface {
	GenerateReply(ctx context.Context, req GenerationRequest) (string, error)
	Provider() string
}

// UserStore defines user's persistence
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id UserID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// SessionStore defines session's persistence
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	UpdateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id SessionID) (*Session, error)
	ListSessionsByUser(ctx context.Context, userID UserID, limit int) ([]*Session, error)
}

// MessageStore defines message's persistence
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *Message) error
	// GetMessagesBySession returns the last limit messages, oldest first.
	GetMessagesBySession(ctx context.Context, sessionID SessionID, limit int) ([]*Message, error)
	// DeleteMessagesBefore removes the user's messages created before cutoff
	// and reports how many were removed.
	DeleteMessagesBefore(ctx context.Context, userID UserID, cutoff time.Time) (int, error)
}

// EventFilter narrows ListEvents. Zero values match everything.
type EventFilter struct {
	Type   EventType
	UserID UserID
	Limit  int
}

// EventStore defines analytics persistence
type EventStore interface {
	AppendEvent(ctx context.Context, ev *Event) error
	// ListEvents returns matching events, newest first.
	ListEvents(ctx context.Context, f EventFilter) ([]*Event, error)
}

// ConsentStore defines consent log persistence
type ConsentStore interface {
	AppendConsent(ctx context.Context, c *ConsentLog) error
	// LatestConsent returns the most recent decision of type t in the session.
	LatestConsent(ctx context.Context, sessionID SessionID, t ConsentType) (*ConsentLog, error)
}

// CheckoutRequest asks a payment provider for a hosted checkout page.
type CheckoutRequest struct {
	UserID     UserID
	Email      string
	Tier       tier.Name
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Checkout is a created checkout session.
type Checkout struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutStatus is the provider's view of a checkout session.
type CheckoutStatus struct {
	ID             string
	UserID         UserID
	Tier           tier.Name
	Paid           bool
	SubscriptionID string
}

// BillingProvider is an external subscription payment service.
type BillingProvider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	GetCheckout(ctx context.Context, id string) (*CheckoutStatus, error)
	Name() string
}
