// Package solicitation decides when a user message is too vague to answer
// and builds the clarification payload shown instead.
package solicitation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/throne-companions/internal/companion"
)

// Trigger controls the vagueness test.
type Trigger struct {
	MinLength             int      `yaml:"min_length" json:"min_length"`
	VagueKeywords         []string `yaml:"vague_keywords" json:"vague_keywords"`
	RequireLowIntentScore bool     `yaml:"require_low_intent_score" json:"require_low_intent_score"`
}

// PersonaPrompts holds one persona's clarification questions and starters.
type PersonaPrompts struct {
	Questions      []string `yaml:"questions" json:"questions"`
	StarterPrompts []string `yaml:"starter_prompts" json:"starter_prompts"`
}

// UI controls how the clarification payload is presented.
type UI struct {
	MaxQuestions    int    `yaml:"max_questions" json:"max_questions"`
	StarterCount    int    `yaml:"starter_count" json:"starter_count"`
	BrandTag        string `yaml:"brand_tag" json:"brand_tag"`
	FallbackAfterMS int    `yaml:"fallback_after_ms" json:"fallback_after_ms"`
	FallbackMode    string `yaml:"fallback_mode" json:"fallback_mode"`
}

// Config is the solicitation document loaded at startup.
type Config struct {
	Trigger  Trigger                   `yaml:"trigger" json:"trigger"`
	Personas map[string]PersonaPrompts `yaml:"personas" json:"personas"`
	UI       UI                        `yaml:"ui" json:"ui"`
}

// Load reads and validates the config at path. JSON documents are accepted
// as well since they are valid YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading solicitation config: %w", err)
	}
	return Parse(data)
}

// document mirrors Config with pointer sections so absent ones are detected.
type document struct {
	Trigger  *Trigger                  `yaml:"trigger"`
	Personas map[string]PersonaPrompts `yaml:"personas"`
	UI       *UI                       `yaml:"ui"`
}

// Parse decodes and validates a config document. Unknown fields are
// rejected and every top-level section must be present.
func Parse(data []byte) (*Config, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing solicitation config: %w", err)
	}

	var missing []error
	if doc.Trigger == nil {
		missing = append(missing, errors.New("trigger section is missing"))
	}
	if doc.Personas == nil {
		missing = append(missing, errors.New("personas section is missing"))
	}
	if doc.UI == nil {
		missing = append(missing, errors.New("ui section is missing"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, fmt.Errorf("invalid solicitation config: %w", err)
	}

	cfg := Config{Trigger: *doc.Trigger, Personas: doc.Personas, UI: *doc.UI}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid solicitation config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// Validate checks the config is usable. Every companion in the catalog must
// have a persona entry.
func (c *Config) Validate() error {
	var errs []error

	if c.Trigger.MinLength < 0 {
		errs = append(errs, errors.New("trigger.min_length must be non-negative"))
	}
	if c.UI.MaxQuestions <= 0 {
		errs = append(errs, errors.New("ui.max_questions must be positive"))
	}
	if c.UI.StarterCount < 0 {
		errs = append(errs, errors.New("ui.starter_count must be non-negative"))
	}
	if c.UI.FallbackAfterMS < 0 {
		errs = append(errs, errors.New("ui.fallback_after_ms must be non-negative"))
	}
	if strings.TrimSpace(c.UI.BrandTag) == "" {
		errs = append(errs, errors.New("ui.brand_tag is required"))
	}
	if strings.TrimSpace(c.UI.FallbackMode) == "" {
		errs = append(errs, errors.New("ui.fallback_mode is required"))
	}

	for _, id := range companion.IDs() {
		p, ok := c.Personas[id]
		if !ok {
			errs = append(errs, fmt.Errorf("personas.%s is missing", id))
			continue
		}
		if len(p.Questions) == 0 {
			errs = append(errs, fmt.Errorf("personas.%s.questions is empty", id))
		}
	}

	return errors.Join(errs...)
}

// normalize lowercases keywords once so matching does not repeat it.
func (c *Config) normalize() {
	kws := make([]string, 0, len(c.Trigger.VagueKeywords))
	for _, kw := range c.Trigger.VagueKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			kws = append(kws, kw)
		}
	}
	c.Trigger.VagueKeywords = kws
}
