package httpadapter

import (
	"net/http"

	"github.com/PabloGalante/throne-companions/internal/app/account"
	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/app/billing"
	"github.com/PabloGalante/throne-companions/internal/app/consent"
	"github.com/PabloGalante/throne-companions/internal/app/conversation"
)

// Deps groups the application services exposed over HTTP.
type Deps struct {
	Accounts      *account.Service
	Conversations *conversation.Service
	Billing       *billing.Service
	Consent       *consent.Service
	Tracker       *analytics.Tracker
}

type Server struct {
	accounts *account.Service
	convs    *conversation.Service
	billing  *billing.Service
	consent  *consent.Service
	tracker  *analytics.Tracker
}

func NewServer(d Deps) http.Handler {
	s := &Server{
		accounts: d.Accounts,
		convs:    d.Conversations,
		billing:  d.Billing,
		consent:  d.Consent,
		tracker:  d.Tracker,
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// catalog
	mux.HandleFunc("GET /tiers", s.handleListTiers)
	mux.HandleFunc("GET /tiers/requirements", s.handleTierRequirements)
	mux.HandleFunc("GET /companions", s.handleListCompanions)
	mux.HandleFunc("GET /companions/{id}", s.handleGetCompanion)
	mux.HandleFunc("GET /companions/{id}/pack", s.handleCompanionPack)
	mux.HandleFunc("POST /upgrade-message", s.handleUpgradeMessage)

	// users
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", s.handleUpdateUser)
	mux.HandleFunc("GET /users/{id}/behavior", s.handleUserBehavior)

	// conversation
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{id}/messages", s.handleSendMessage)
	mux.HandleFunc("POST /sessions/{id}/clarify", s.handleClarify)
	mux.HandleFunc("POST /consent", s.handleConsent)

	// billing
	mux.HandleFunc("POST /billing/checkout", s.handleCheckout)
	mux.HandleFunc("GET /billing/confirm", s.handleConfirm)

	mux.HandleFunc("GET /events", s.handleListEvents)

	return chainMiddlewares(mux,
		withClient,
		withLogging,
		withRequestID,
		withCORS,
	)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
