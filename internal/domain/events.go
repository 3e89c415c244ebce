package domain

import (
	"encoding/json"
	"fmt"

	"github.com/PabloGalante/throne-companions/internal/tier"
)

type EventType string

const (
	EventSessionStart      EventType = "session_start"
	EventMessageSent       EventType = "message_sent"
	EventUpgradeCTAShown   EventType = "upgrade_cta_shown"
	EventUpgradeAttempt    EventType = "upgrade_attempt"
	EventUpgradeSuccess    EventType = "upgrade_success"
	EventTierChange        EventType = "tier_change"
	EventSolicitationShown EventType = "solicitation_shown"
	EventConsentRequested  EventType = "consent_requested"
	EventConsentGranted    EventType = "consent_granted"
	EventConsentDenied     EventType = "consent_denied"
	EventLLMRequest        EventType = "llm_request"
	EventMemoryPrune       EventType = "memory_prune"
	EventAPIError          EventType = "api_error"
)

// Known reports whether t is one of the event types above.
func (t EventType) Known() bool {
	switch t {
	case EventSessionStart, EventMessageSent, EventUpgradeCTAShown, EventUpgradeAttempt,
		EventUpgradeSuccess, EventTierChange, EventSolicitationShown, EventConsentRequested,
		EventConsentGranted, EventConsentDenied, EventLLMRequest, EventMemoryPrune, EventAPIError:
		return true
	}
	return false
}

// EventPayload is implemented by the fixed payload struct of each event type.
type EventPayload interface {
	EventType() EventType
}

// Event is one analytics record. Payload's concrete type always matches Type.
type Event struct {
	ID        EventID      `json:"id"`
	Type      EventType    `json:"type"`
	UserID    UserID       `json:"user_id,omitempty"`
	SessionID SessionID    `json:"session_id,omitempty"`
	Tier      tier.Name    `json:"tier,omitempty"`
	Companion string       `json:"companion,omitempty"`
	Device    string       `json:"device,omitempty"`
	Region    string       `json:"region,omitempty"`
	CreatedAt Timestamp    `json:"created_at"`
	Payload   EventPayload `json:"payload"`
}

type SessionStart struct {
	CompanionID string `json:"companion_id"`
}

type MessageSent struct {
	Mode   tier.Mode   `json:"mode"`
	Kind   MessageKind `json:"kind"`
	Length int         `json:"length"`
}

type UpgradeCTAShown struct {
	Feature    tier.Mode `json:"feature"`
	TargetTier tier.Name `json:"target_tier"`
}

type UpgradeAttempt struct {
	TargetTier tier.Name `json:"target_tier"`
	CheckoutID string    `json:"checkout_id"`
	Provider   string    `json:"provider"`
}

type UpgradeSuccess struct {
	TargetTier     tier.Name `json:"target_tier"`
	SubscriptionID string    `json:"subscription_id"`
}

type TierChange struct {
	From   tier.Name `json:"from"`
	To     tier.Name `json:"to"`
	Reason string    `json:"reason"`
}

type SolicitationShown struct {
	Persona   string `json:"persona"`
	Questions int    `json:"questions"`
}

type ConsentRequested struct {
	Consent ConsentType `json:"consent"`
}

type ConsentGranted struct {
	Consent ConsentType `json:"consent"`
}

type ConsentDenied struct {
	Consent ConsentType `json:"consent"`
}

type LLMRequest struct {
	Provider  string `json:"provider"`
	LatencyMS int64  `json:"latency_ms"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

type MemoryPrune struct {
	Deleted int       `json:"deleted"`
	Cutoff  Timestamp `json:"cutoff"`
}

type APIError struct {
	Route   string `json:"route"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (SessionStart) EventType() EventType      { return EventSessionStart }
func (MessageSent) EventType() EventType       { return EventMessageSent }
func (UpgradeCTAShown) EventType() EventType   { return EventUpgradeCTAShown }
func (UpgradeAttempt) EventType() EventType    { return EventUpgradeAttempt }
func (UpgradeSuccess) EventType() EventType    { return EventUpgradeSuccess }
func (TierChange) EventType() EventType        { return EventTierChange }
func (SolicitationShown) EventType() EventType { return EventSolicitationShown }
func (ConsentRequested) EventType() EventType  { return EventConsentRequested }
func (ConsentGranted) EventType() EventType    { return EventConsentGranted }
func (ConsentDenied) EventType() EventType     { return EventConsentDenied }
func (LLMRequest) EventType() EventType        { return EventLLMRequest }
func (MemoryPrune) EventType() EventType       { return EventMemoryPrune }
func (APIError) EventType() EventType          { return EventAPIError }

// DecodePayload restores the typed payload of a stored event.
func DecodePayload(t EventType, data []byte) (EventPayload, error) {
	var p EventPayload
	switch t {
	case EventSessionStart:
		p = &SessionStart{}
	case EventMessageSent:
		p = &MessageSent{}
	case EventUpgradeCTAShown:
		p = &UpgradeCTAShown{}
	case EventUpgradeAttempt:
		p = &UpgradeAttempt{}
	case EventUpgradeSuccess:
		p = &UpgradeSuccess{}
	case EventTierChange:
		p = &TierChange{}
	case EventSolicitationShown:
		p = &SolicitationShown{}
	case EventConsentRequested:
		p = &ConsentRequested{}
	case EventConsentGranted:
		p = &ConsentGranted{}
	case EventConsentDenied:
		p = &ConsentDenied{}
	case EventLLMRequest:
		p = &LLMRequest{}
	case EventMemoryPrune:
		p = &MemoryPrune{}
	case EventAPIError:
		p = &APIError{}
	default:
		return nil, fmt.Errorf("unknown event type %q", t)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", t, err)
		}
	}
	return deref(p), nil
}

func deref(p EventPayload) EventPayload {
	switch v := p.(type) {
	case *SessionStart:
		return *v
	case *MessageSent:
		return *v
	case *UpgradeCTAShown:
		return *v
	case *UpgradeAttempt:
		return *v
	case *UpgradeSuccess:
		return *v
	case *TierChange:
		return *v
	case *SolicitationShown:
		return *v
	case *ConsentRequested:
		return *v
	case *ConsentGranted:
		return *v
	case *ConsentDenied:
		return *v
	case *LLMRequest:
		return *v
	case *MemoryPrune:
		return *v
	case *APIError:
		return *v
	}
	return p
}
