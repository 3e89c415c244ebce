package chatflow

import (
	"context"
	"time"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
)

// GenerateStage hands the assembled system prompt and the message to the LLM
// and returns its reply verbatim.
type GenerateStage struct {
	llm       domain.LLMClient
	assembler Assembler
	tracker   *analytics.Tracker
	now       func() time.Time
}

func NewGenerateStage(llm domain.LLMClient, assembler Assembler, tracker *analytics.Tracker) *GenerateStage {
	return &GenerateStage{
		llm:       llm,
		assembler: assembler,
		tracker:   tracker,
		now:       time.Now,
	}
}

func (s *GenerateStage) Name() string {
	return "generate"
}

func (s *GenerateStage) Run(ctx context.Context, turn *Turn) (*Outcome, error) {
	log := observability.LoggerFromContext(ctx).With("stage", s.Name(), "provider", s.llm.Provider())

	cfg := s.assembler.Assemble(behavior.UserContext{
		Tier:            turn.User.Tier,
		ChosenCompanion: turn.companionID(),
		Features:        turn.User.Features,
	})

	req := domain.GenerationRequest{
		UserID:       turn.User.ID,
		SystemPrompt: cfg.SystemPrompt,
		Preface:      turn.Preface,
		UserMessage:  turn.Text,
		History:      turn.History,
	}
	if turn.Session != nil {
		req.SessionID = turn.Session.ID
	}

	start := s.now()
	reply, err := s.llm.GenerateReply(ctx, req)
	s.tracker.LLMRequested(ctx, turn.subject(), s.llm.Provider(), s.now().Sub(start), err)
	if err != nil {
		log.Error("llm request failed", "error", err)
		return nil, err
	}

	return &Outcome{
		Kind: domain.KindText,
		Text: reply,
	}, nil
}
