package httpadapter

import (
	"net/http"

	"github.com/PabloGalante/throne-companions/internal/domain"
)

type checkoutRequest struct {
	UserID string `json:"user_id"`
	Tier   string `json:"tier"`
}

type consentRequest struct {
	UserID      string `json:"user_id"`
	SessionID   string `json:"session_id"`
	ConsentType string `json:"consent_type"`
	// Granted is nil when the client only shows the consent prompt.
	Granted *bool `json:"granted,omitempty"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("user_id", req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}

	checkout, err := s.billing.Checkout(r.Context(), domain.UserID(req.UserID), req.Tier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

// handleConfirm is hit by the frontend after the provider redirects back.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, checkoutID := q.Get("user_id"), q.Get("session_id")
	if err := required("user_id", userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("session_id", checkoutID); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.billing.Confirm(r.Context(), domain.UserID(userID), checkoutID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("user_id", req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("session_id", req.SessionID); err != nil {
		s.writeError(w, r, err)
		return
	}
	ct, err := domain.ParseConsentType(req.ConsentType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	userID, sessionID := domain.UserID(req.UserID), domain.SessionID(req.SessionID)
	if req.Granted == nil {
		s.consent.Request(r.Context(), userID, sessionID, ct)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
		return
	}

	entry, err := s.consent.Record(r.Context(), userID, sessionID, ct, *req.Granted)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
