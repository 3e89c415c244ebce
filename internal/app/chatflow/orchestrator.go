// Package chatflow runs one chat turn through the gate, solicit and generate
// stages.
package chatflow

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/solicitation"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

// Turn is the input of one pipeline run.
type Turn struct {
	User    *domain.User
	Session *domain.Session
	Text    string
	Mode    tier.Mode
	// IntentScore is optional; nil disables the low intent rule.
	IntentScore *float64
	// Preface holds rendered clarification answers. A turn with a preface
	// skips the solicit stage.
	Preface string
	History []*domain.Message
}

func (t *Turn) subject() analytics.Subject {
	s := analytics.Subject{
		UserID: t.User.ID,
		Tier:   t.User.Tier,
	}
	if t.Session != nil {
		s.SessionID = t.Session.ID
		s.Companion = t.Session.CompanionID
	}
	return s
}

func (t *Turn) companionID() string {
	if t.Session != nil && t.Session.CompanionID != "" {
		return t.Session.CompanionID
	}
	return t.User.ChosenCompanion
}

// Outcome is what the pipeline produced for the turn.
type Outcome struct {
	Kind domain.MessageKind `json:"kind"`
	Text string             `json:"text"`
	// RequiredTier is set for upgrade CTAs.
	RequiredTier tier.Name              `json:"required_tier,omitempty"`
	Solicitation *solicitation.Response `json:"solicitation,omitempty"`
	Stage        string                 `json:"stage"`
}

// Stage is one step of the pipeline. A stage that returns a non-nil Outcome
// ends the run.
type Stage interface {
	Name() string
	Run(ctx context.Context, turn *Turn) (*Outcome, error)
}

// EngineSource yields the current solicitation engine. *solicitation.Reloader
// satisfies it.
type EngineSource interface {
	Engine() *solicitation.Engine
}

// StaticEngine serves a fixed engine.
type StaticEngine struct {
	E *solicitation.Engine
}

func (s StaticEngine) Engine() *solicitation.Engine { return s.E }

// Assembler builds the behavior config for a user. *behavior.Cache satisfies it.
type Assembler interface {
	Assemble(uc behavior.UserContext) behavior.Config
}

// Orchestrator is responsible for running the stages in sequence.
type Orchestrator struct {
	stages []Stage
}

// NewOrchestrator runs stages in the given order.
func NewOrchestrator(stages ...Stage) *Orchestrator {
	return &Orchestrator{stages: stages}
}

// NewDefaultOrchestrator constructs a flow with Gate -> Solicit -> Generate.
func NewDefaultOrchestrator(
	llm domain.LLMClient,
	engines EngineSource,
	assembler Assembler,
	tracker *analytics.Tracker,
) *Orchestrator {
	return NewOrchestrator(
		NewGateStage(tracker),
		NewSolicitStage(engines, tracker),
		NewGenerateStage(llm, assembler, tracker),
	)
}

// Run executes the stages until one of them produces an outcome.
func (o *Orchestrator) Run(ctx context.Context, turn *Turn) (*Outcome, error) {
	if len(o.stages) == 0 {
		return nil, fmt.Errorf("no stages configured in orchestrator")
	}
	if turn == nil || turn.User == nil {
		return nil, fmt.Errorf("turn has no user")
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", turn.User.ID,
		"tier", turn.User.Tier,
		"mode", turn.Mode,
	)
	log.Info("orchestrator started", "stages_count", len(o.stages))

	for _, st := range o.stages {
		start := time.Now()

		out, err := st.Run(ctx, turn)
		if err != nil {
			log.Error("stage failed",
				"stage", st.Name(),
				"error", err)
			return nil, fmt.Errorf("stage %s failed: %w", st.Name(), err)
		}

		log.Debug("stage run end", "stage", st.Name(), "elapsed_ms", time.Since(start).Milliseconds())

		if out != nil {
			out.Stage = st.Name()
			log.Info("orchestrator end", "stage", st.Name(), "kind", out.Kind)
			return out, nil
		}
	}

	return nil, fmt.Errorf("no stage produced a reply")
}
