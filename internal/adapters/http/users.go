package httpadapter

import (
	"net/http"

	"github.com/PabloGalante/throne-companions/internal/app/account"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

type createUserRequest struct {
	Email     string `json:"email"`
	Tier      string `json:"tier,omitempty"`
	Companion string `json:"companion,omitempty"`
}

type updateUserRequest struct {
	Tier      *string        `json:"tier,omitempty"`
	Companion *string        `json:"companion,omitempty"`
	Features  *tier.Features `json:"features,omitempty"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.accounts.Register(r.Context(), account.RegisterInput{
		Email:     req.Email,
		Tier:      req.Tier,
		Companion: req.Companion,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.Get(r.Context(), domain.UserID(r.PathValue("id")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.accounts.Update(r.Context(), domain.UserID(r.PathValue("id")), account.UpdateInput{
		Tier:      req.Tier,
		Companion: req.Companion,
		Features:  req.Features,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUserBehavior(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.accounts.Behavior(r.Context(), domain.UserID(r.PathValue("id")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
