package httpadapter

import (
	"net/http"
	"strconv"

	"github.com/PabloGalante/throne-companions/internal/app/chatflow"
	"github.com/PabloGalante/throne-companions/internal/app/conversation"
	"github.com/PabloGalante/throne-companions/internal/domain"
)

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	UserID      string `json:"user_id"`
	CompanionID string `json:"companion_id,omitempty"`
	Title       string `json:"title,omitempty"`
}

type createSessionResponse struct {
	Session *domain.Session `json:"session"`
	Welcome *domain.Message `json:"welcome_message,omitempty"`
}

type sendMessageRequest struct {
	UserID      string   `json:"user_id"`
	Text        string   `json:"text"`
	Mode        string   `json:"mode,omitempty"`
	IntentScore *float64 `json:"intent_score,omitempty"`
}

type clarifyRequest struct {
	UserID        string         `json:"user_id"`
	Answers       map[int]string `json:"answers"`
	ChosenStarter string         `json:"chosen_starter,omitempty"`
	Text          string         `json:"text,omitempty"`
}

type sendMessageResponse struct {
	UserMessage  *domain.Message   `json:"user_message"`
	AgentMessage *domain.Message   `json:"agent_message"`
	Outcome      *chatflow.Outcome `json:"outcome"`
}

type getSessionResponse struct {
	Session  *domain.Session   `json:"session"`
	Messages []*domain.Message `json:"messages"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("user_id", req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.convs.StartSession(r.Context(), conversation.StartSessionInput{
		UserID:      domain.UserID(req.UserID),
		CompanionID: req.CompanionID,
		Title:       req.Title,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		Session: out.Session,
		Welcome: out.Welcome,
	})
}

// handleGetSession returns the session with its timeline. ?limit= keeps only
// the most recent messages.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, badQuery("limit", v))
			return
		}
		limit = n
	}

	session, msgs, err := s.convs.GetSessionTimeline(r.Context(), domain.SessionID(r.PathValue("id")), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session:  session,
		Messages: msgs,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("user_id", req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("text", req.Text); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.convs.SendMessage(r.Context(), conversation.SendMessageInput{
		SessionID:   domain.SessionID(r.PathValue("id")),
		UserID:      domain.UserID(req.UserID),
		Text:        req.Text,
		Mode:        req.Mode,
		IntentScore: req.IntentScore,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSendMessageResponse(out))
}

func (s *Server) handleClarify(w http.ResponseWriter, r *http.Request) {
	var req clarifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("user_id", req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.convs.Clarify(r.Context(), conversation.ClarifyInput{
		SessionID:     domain.SessionID(r.PathValue("id")),
		UserID:        domain.UserID(req.UserID),
		Answers:       req.Answers,
		ChosenStarter: req.ChosenStarter,
		Text:          req.Text,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSendMessageResponse(out))
}

func toSendMessageResponse(out *conversation.SendMessageOutput) sendMessageResponse {
	return sendMessageResponse{
		UserMessage:  out.UserMessage,
		AgentMessage: out.AgentMessage,
		Outcome:      out.Outcome,
	}
}
