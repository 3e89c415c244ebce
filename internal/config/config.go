package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/scheduler"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

// Storage backends.
const (
	StorageMemory    = "memory"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"
)

// LLM providers.
const (
	LLMMock      = "mock"
	LLMVertex    = "vertex"
	LLMAnthropic = "anthropic"
	LLMOpenAI    = "openai"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCPLocation  string

	LLMProvider     string
	ModelName       string
	AnthropicAPIKey string
	OpenAIAPIKey    string

	StorageBackend string // "memory", "sqlite" or "firestore"
	SQLitePath     string

	SolicitationConfig string
	WatchConfig        bool

	StripeSecretKey string
	// StripePrices maps paid tiers to price IDs.
	StripePrices   map[tier.Name]string
	SandboxAutoPay bool
	FrontendURL    string

	PruneSchedule string
	LogLevel      string
	BehaviorCache int
}

// BillingProvider names the payment backend: stripe when a secret key is
// configured, otherwise the in-process sandbox.
func (c *Config) BillingProvider() string {
	if c.StripeSecretKey != "" {
		return "stripe"
	}
	return "sandbox"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Load reads all env vars and builds the config
func Load() (*Config, error) {
	modeStr := getEnv("THRONE_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultStorage, defaultLLM := StorageMemory, LLMMock
	if mode == ModeGCP {
		defaultStorage, defaultLLM = StorageFirestore, LLMVertex
	}

	cacheSize, err := getIntEnv("THRONE_BEHAVIOR_CACHE", behavior.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("THRONE_PORT", "8080"),

		GCPProjectID: getEnv("THRONE_GCP_PROJECT", ""),
		GCPLocation:  getEnv("THRONE_GCP_LOCATION", "us-central1"),

		LLMProvider:     strings.ToLower(getEnv("THRONE_LLM_PROVIDER", defaultLLM)),
		ModelName:       getEnv("THRONE_MODEL_NAME", ""),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),

		StorageBackend: strings.ToLower(getEnv("THRONE_STORAGE_BACKEND", defaultStorage)),
		SQLitePath:     getEnv("THRONE_SQLITE_PATH", "data/throne.db"),

		SolicitationConfig: getEnv("THRONE_SOLICITATION_CONFIG", "configs/solicitation.yaml"),
		WatchConfig:        getBoolEnv("THRONE_WATCH_CONFIG", false),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		StripePrices:    make(map[tier.Name]string),
		SandboxAutoPay:  getBoolEnv("THRONE_SANDBOX_AUTOPAY", true),
		FrontendURL:     getEnv("THRONE_FRONTEND_URL", "http://localhost:3000"),

		PruneSchedule: getEnv("THRONE_PRUNE_SCHEDULE", scheduler.DefaultPruneSchedule),
		LogLevel:      getEnv("THRONE_LOG_LEVEL", "info"),
		BehaviorCache: cacheSize,
	}

	for _, name := range tier.Names() {
		if name == tier.Default {
			continue
		}
		key := "THRONE_STRIPE_PRICE_" + strings.ToUpper(string(name))
		def := ""
		if cfg.BillingProvider() == "sandbox" {
			def = "price_sandbox_" + string(name)
		}
		if v := getEnv(key, def); v != "" {
			cfg.StripePrices[name] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations Load cannot default away.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case StorageMemory, StorageSQLite:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("THRONE_GCP_PROJECT must be set for firestore storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	switch c.LLMProvider {
	case LLMMock:
	case LLMVertex:
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("THRONE_GCP_PROJECT must be set for the vertex provider"))
		}
	case LLMAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY must be set for the anthropic provider"))
		}
	case LLMOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY must be set for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLMProvider))
	}

	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		errs = append(errs, errors.New("THRONE_GCP_PROJECT must be set in gcp mode"))
	}
	if c.SolicitationConfig == "" {
		errs = append(errs, errors.New("THRONE_SOLICITATION_CONFIG must not be empty"))
	}
	if c.BehaviorCache <= 0 {
		errs = append(errs, errors.New("THRONE_BEHAVIOR_CACHE must be positive"))
	}
	if err := scheduler.Validate(c.PruneSchedule); err != nil {
		errs = append(errs, fmt.Errorf("THRONE_PRUNE_SCHEDULE: %w", err))
	}

	return errors.Join(errs...)
}
