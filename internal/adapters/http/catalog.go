package httpadapter

import (
	"fmt"
	"net/http"

	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/companion"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

type upgradeMessageRequest struct {
	CurrentTier string `json:"current_tier"`
	// TargetTier defaults to the minimum tier for Feature.
	TargetTier string `json:"target_tier,omitempty"`
	Feature    string `json:"feature"`
}

type upgradeMessageResponse struct {
	Message    string    `json:"message"`
	TargetTier tier.Name `json:"target_tier"`
}

type packResponse struct {
	Companion string    `json:"companion"`
	Tier      tier.Name `json:"tier"`
	companion.StarterPack
}

func (s *Server) handleListTiers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tiers": tier.All()})
}

func (s *Server) handleTierRequirements(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"requirements": tier.Requirements()})
}

func (s *Server) handleListCompanions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"companions": companion.All()})
}

func (s *Server) handleGetCompanion(w http.ResponseWriter, r *http.Request) {
	c, ok := companion.Lookup(r.PathValue("id"))
	if !ok {
		s.writeError(w, r, fmt.Errorf("companion %q: %w", r.PathValue("id"), domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleCompanionPack serves the starter pack. An unknown tier query value
// falls back to the default tier.
func (s *Server) handleCompanionPack(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !companion.Valid(id) {
		s.writeError(w, r, fmt.Errorf("companion %q: %w", id, domain.ErrNotFound))
		return
	}
	t, _ := tier.Parse(r.URL.Query().Get("tier"))

	writeJSON(w, http.StatusOK, packResponse{
		Companion:   id,
		Tier:        t,
		StarterPack: companion.Pack(id, t),
	})
}

func (s *Server) handleUpgradeMessage(w http.ResponseWriter, r *http.Request) {
	var req upgradeMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	current, _ := tier.Parse(req.CurrentTier)
	target := tier.MinimumTierFor(tier.Mode(req.Feature))
	if req.TargetTier != "" {
		t, ok := tier.Parse(req.TargetTier)
		if !ok {
			s.writeError(w, r, fmt.Errorf("%w: unknown target tier %q", domain.ErrInvalidInput, req.TargetTier))
			return
		}
		target = t
	}

	writeJSON(w, http.StatusOK, upgradeMessageResponse{
		Message:    behavior.RenderUpgrade(current, target, req.Feature),
		TargetTier: target,
	})
}
