package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PabloGalante/throne-companions/internal/adapters/billing/sandbox"
	stripebilling "github.com/PabloGalante/throne-companions/internal/adapters/billing/stripe"
	httpadapter "github.com/PabloGalante/throne-companions/internal/adapters/http"
	"github.com/PabloGalante/throne-companions/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/throne-companions/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/throne-companions/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/throne-companions/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/throne-companions/internal/app/account"
	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/app/billing"
	"github.com/PabloGalante/throne-companions/internal/app/consent"
	"github.com/PabloGalante/throne-companions/internal/app/conversation"
	"github.com/PabloGalante/throne-companions/internal/app/memory"
	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/config"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/scheduler"
	"github.com/PabloGalante/throne-companions/internal/solicitation"
)

// pruneTimeout bounds one memory prune run.
const pruneTimeout = 5 * time.Minute

// stores groups the persistence ports. SQLite and Firestore implement all of
// them with one value.
type stores struct {
	users    domain.UserStore
	sessions domain.SessionStore
	messages domain.MessageStore
	events   domain.EventStore
	consent  domain.ConsentStore
	close    func() error
}

type allStores interface {
	domain.UserStore
	domain.SessionStore
	domain.MessageStore
	domain.EventStore
	domain.ConsentStore
	Close() error
}

func fromStore(s allStores) *stores {
	return &stores{users: s, sessions: s, messages: s, events: s, consent: s, close: s.Close}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	log := observability.Logger()

	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, fmt.Errorf("initializing firestore store: %w", err)
		}
		return fromStore(fs), nil

	case config.StorageSQLite:
		log.Info("using sqlite storage", "path", cfg.SQLitePath)
		db, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("initializing sqlite store: %w", err)
		}
		return fromStore(db), nil

	default:
		log.Info("using in-memory storage")
		return &stores{
			users:    memstore.NewUserStore(),
			sessions: memstore.NewSessionStore(),
			messages: memstore.NewMessageStore(),
			events:   memstore.NewEventStore(),
			consent:  memstore.NewConsentStore(),
			close:    func() error { return nil },
		}, nil
	}
}

func newBillingProvider(cfg *config.Config) (domain.BillingProvider, error) {
	if cfg.BillingProvider() == "stripe" {
		observability.Logger().Info("using stripe billing")
		p, err := stripebilling.NewProvider(stripebilling.Config{SecretKey: cfg.StripeSecretKey})
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	observability.Logger().Info("using sandbox billing", "auto_pay", cfg.SandboxAutoPay)
	return sandbox.NewProvider(cfg.SandboxAutoPay), nil
}

// App is the fully wired service.
type App struct {
	Handler  http.Handler
	Reloader *solicitation.Reloader
	Memory   *memory.Service

	stores *stores
}

// Build wires every adapter and service described by cfg.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log := observability.Logger()

	reloader, err := solicitation.NewReloader(cfg.SolicitationConfig, log)
	if err != nil {
		return nil, fmt.Errorf("loading solicitation config: %w", err)
	}

	llmClient, err := llm.New(ctx, llm.Settings{
		Provider:        cfg.LLMProvider,
		ModelName:       cfg.ModelName,
		GCPProjectID:    cfg.GCPProjectID,
		GCPLocation:     cfg.GCPLocation,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing llm client: %w", err)
	}
	log.Info("using llm provider", "provider", llmClient.Provider())

	provider, err := newBillingProvider(cfg)
	if err != nil {
		return nil, err
	}

	cache, err := behavior.NewCache(cfg.BehaviorCache)
	if err != nil {
		return nil, err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tracker := analytics.NewTracker(st.events)
	accounts := account.NewService(st.users, tracker, cache)

	convs := conversation.NewService(conversation.Deps{
		LLM:       llmClient,
		Users:     st.users,
		Sessions:  st.sessions,
		Messages:  st.messages,
		Engines:   reloader,
		Assembler: cache,
		Tracker:   tracker,
	})

	billingSvc := billing.NewService(provider, accounts, tracker, billing.Config{
		Prices:      cfg.StripePrices,
		FrontendURL: cfg.FrontendURL,
	})

	handler := httpadapter.NewServer(httpadapter.Deps{
		Accounts:      accounts,
		Conversations: convs,
		Billing:       billingSvc,
		Consent:       consent.NewService(st.consent, tracker),
		Tracker:       tracker,
	})

	return &App{
		Handler:  handler,
		Reloader: reloader,
		Memory:   memory.NewService(st.users, st.messages, tracker),
		stores:   st,
	}, nil
}

// PruneJob runs the memory retention sweep on schedule.
func (a *App) PruneJob(schedule string) scheduler.Job {
	return scheduler.Job{
		Name:     "memory_prune",
		Schedule: schedule,
		Timeout:  pruneTimeout,
		Run: func(ctx context.Context) error {
			report, err := a.Memory.Prune(ctx, time.Now())
			observability.LoggerFromContext(ctx).Info("memory prune finished",
				"users", report.Users,
				"deleted", report.Deleted,
			)
			return err
		},
	}
}

func (a *App) Close() error {
	if a.stores == nil {
		return nil
	}
	return a.stores.close()
}
