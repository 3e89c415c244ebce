package chatflow

import (
	"context"
	"strings"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/domain"
)

// SolicitStage answers vague messages with clarification questions.
type SolicitStage struct {
	engines EngineSource
	tracker *analytics.Tracker
}

func NewSolicitStage(engines EngineSource, tracker *analytics.Tracker) *SolicitStage {
	return &SolicitStage{engines: engines, tracker: tracker}
}

func (s *SolicitStage) Name() string {
	return "solicit"
}

func (s *SolicitStage) Run(ctx context.Context, turn *Turn) (*Outcome, error) {
	if turn.Preface != "" {
		return nil, nil
	}

	persona := turn.companionID()
	verdict, err := s.engines.Engine().MaybeSolicit(turn.Text, turn.IntentScore, persona)
	if err != nil {
		return nil, err
	}
	if !verdict.IsVague {
		return nil, nil
	}

	s.tracker.SolicitationShown(ctx, turn.subject(), persona, len(verdict.Response.Questions))

	return &Outcome{
		Kind:         domain.KindSolicitation,
		Text:         strings.Join(verdict.Response.Questions, "\n"),
		Solicitation: verdict.Response,
	}, nil
}
