package chatflow

import (
	"context"
	"slices"

	"github.com/PabloGalante/throne-companions/internal/app/analytics"
	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/domain"
	"github.com/PabloGalante/throne-companions/internal/observability"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

// GateStage denies modes the user's tier does not grant and answers with an
// upgrade call to action instead. Modes the tier grants but the user's
// feature flags switch off are refused without a call to action.
type GateStage struct {
	tracker *analytics.Tracker
}

func NewGateStage(tracker *analytics.Tracker) *GateStage {
	return &GateStage{tracker: tracker}
}

func (s *GateStage) Name() string {
	return "gate"
}

func (s *GateStage) Run(ctx context.Context, turn *Turn) (*Outcome, error) {
	mode := turn.Mode
	if mode == "" {
		mode = tier.ModeText
	}
	if tier.IsModeAllowed(turn.User.Tier, mode) {
		if !mode.Known() || slices.Contains(tier.ResolveModes(tier.Lookup(turn.User.Tier), turn.User.Features), mode) {
			return nil, nil
		}
		observability.LoggerFromContext(ctx).Info("mode disabled by feature flags",
			"user_id", turn.User.ID,
			"mode", mode)
		return &Outcome{
			Kind: domain.KindFeatureDisabled,
			Text: behavior.RenderFeatureDisabled(turn.User.Tier, string(mode)),
		}, nil
	}

	required := tier.MinimumTierFor(mode)
	s.tracker.UpgradeCTAShown(ctx, turn.subject(), mode, required)

	return &Outcome{
		Kind:         domain.KindUpgradeCTA,
		Text:         behavior.RenderUpgrade(turn.User.Tier, required, string(mode)),
		RequiredTier: required,
	}, nil
}
