package solicitation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PabloGalante/throne-companions/internal/companion"
)

// ErrUnknownPersona is returned when a persona has no entry in the config.
// Callers are expected to validate companion IDs before asking.
var ErrUnknownPersona = errors.New("solicitation: unknown persona")

// LowIntentThreshold is the intent score below which input counts as vague.
const LowIntentThreshold = 0.3

// ResponseType tags a clarification payload for the client.
const ResponseType = "solicitation"

// Fallback tells the client how long to wait for clarification before it
// asks for a direct answer instead.
type Fallback struct {
	AfterMS int    `json:"after_ms"`
	Mode    string `json:"mode"`
}

// Response is the clarification payload returned instead of an LLM reply.
type Response struct {
	Type           string   `json:"type"`
	Questions      []string `json:"questions"`
	StarterPrompts []string `json:"starter_prompts"`
	Tag            string   `json:"tag"`
	Fallback       Fallback `json:"fallback"`
}

// Verdict is the outcome of MaybeSolicit. Response is nil unless IsVague.
type Verdict struct {
	IsVague  bool      `json:"is_vague"`
	Response *Response `json:"response,omitempty"`
}

// Engine evaluates user input against an immutable Config. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	cfg *Config
}

// NewEngine validates cfg and wraps it.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("solicitation: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cp := *cfg
	cp.normalize()
	return &Engine{cfg: &cp}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return *e.cfg
}

// HasPersona reports whether persona has clarification prompts configured.
func (e *Engine) HasPersona(persona string) bool {
	_, ok := e.cfg.Personas[persona]
	return ok
}

// IsVague applies the trigger rules in order and stops at the first match:
// too short, contains a vague keyword, low supplied intent score.
func (e *Engine) IsVague(input string, intentScore *float64) bool {
	text := strings.ToLower(strings.TrimSpace(input))

	if utf8.RuneCountInString(text) < e.cfg.Trigger.MinLength {
		return true
	}

	for _, kw := range e.cfg.Trigger.VagueKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	if e.cfg.Trigger.RequireLowIntentScore && intentScore != nil && *intentScore < LowIntentThreshold {
		return true
	}

	return false
}

// MaybeSolicit returns a vague verdict with the persona's clarification
// payload, or a proceed verdict when the input can be answered directly.
func (e *Engine) MaybeSolicit(input string, intentScore *float64, persona string) (Verdict, error) {
	if !e.IsVague(input, intentScore) {
		return Verdict{}, nil
	}

	p, ok := e.cfg.Personas[persona]
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %q", ErrUnknownPersona, persona)
	}

	ui := e.cfg.UI
	return Verdict{
		IsVague: true,
		Response: &Response{
			Type:           ResponseType,
			Questions:      head(p.Questions, ui.MaxQuestions),
			StarterPrompts: head(p.StarterPrompts, ui.StarterCount),
			Tag:            ui.BrandTag,
			Fallback: Fallback{
				AfterMS: ui.FallbackAfterMS,
				Mode:    ui.FallbackMode,
			},
		},
	}, nil
}

var clarifierLabels = map[int]string{
	0: "Goal",
	1: "Detail",
	2: "Decision",
	3: "Level",
	4: "Teaching",
}

// BuildPreface renders the block prepended to the next LLM request once the
// user has answered clarification questions. answers is keyed by question
// index; blank answers are left out.
func (e *Engine) BuildPreface(answers map[int]string, persona, chosenStarter string) (string, error) {
	style, ok := companion.Style(persona)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPersona, persona)
	}

	idx := make([]int, 0, len(answers))
	for i := range answers {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	lines := []string{"User intent (solicited):"}
	for _, i := range idx {
		answer := answers[i]
		if strings.TrimSpace(answer) == "" {
			continue
		}
		label, ok := clarifierLabels[i]
		if !ok {
			label = fmt.Sprintf("Question %d", i)
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", label, answer))
	}

	if starter := strings.TrimSpace(chosenStarter); starter != "" {
		lines = append(lines, "- Chosen starter: "+starter)
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Persona: %s (%s)", companion.DisplayName(persona), style),
		"Instruction: Answer accordingly with your natural personality.",
		"",
	)

	return strings.Join(lines, "\n"), nil
}

func head(s []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return append([]string{}, s[:n]...)
}
