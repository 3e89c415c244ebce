package domain

import "github.com/PabloGalante/throne-companions/internal/tier"

// User is a subscriber of the service. Tier and Features drive every gating
// decision made on their behalf.
type User struct {
	ID              UserID        `json:"id"`
	Email           string        `json:"email"`
	Tier            tier.Name     `json:"tier"`
	ChosenCompanion string        `json:"chosen_companion"`
	Features        tier.Features `json:"features"`
	SubscriptionID  string        `json:"subscription_id,omitempty"`
	CreatedAt       Timestamp     `json:"created_at"`
	LastActive      Timestamp     `json:"last_active"`
}
