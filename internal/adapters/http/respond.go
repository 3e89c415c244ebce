package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PabloGalante/throne-companions/internal/app/billing"
	"github.com/PabloGalante/throne-companions/internal/app/conversation"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/solicitation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	return nil
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, conversation.ErrNotSessionOwner):
		return http.StatusForbidden
	case errors.Is(err, billing.ErrPaymentIncomplete):
		return http.StatusPaymentRequired
	case errors.Is(err, billing.ErrPriceNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, solicitation.ErrUnknownPersona):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err and records an api_error event. Internal errors are
// logged but their text is not sent to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()

	log := observability.LoggerFromContext(r.Context()).With("route", r.Pattern, "status", status)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		msg = "internal server error"
	} else {
		log.Warn("request rejected", "error", err)
	}

	if s.tracker != nil {
		s.tracker.APIError(r.Context(), r.Pattern, status, msg)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
