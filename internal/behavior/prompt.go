package behavior

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/throne-companions/internal/companion"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

var behaviorRules = map[tier.Name]string{
	tier.Novice:     "Answer in at most 4 sentences; give 1 action.",
	tier.Apprentice: "Provide 2–3 step exercises + one measurable action.",
	tier.Regent:     "Provide multi-step plans, offer file/trackers, reference saved memory.",
	tier.Sovereign:  "Provide co-creation options, persona-building, ask consent for intimacy/therapy.",
}

const safetyClause = "Require explicit text consent each session before intimacy/therapy. " +
	"For finance: include a 'not financial advice' disclaimer before any finance guidance and require explicit confirmation. " +
	"Log consent events."

// UpgradeCTATemplate is what the model may say verbatim when asked for a
// locked feature. The bracketed slots are filled by the model.
const UpgradeCTATemplate = `If user requests a locked feature, respond: "I can do that — it's a [TARGET_TIER] feature ([FEATURES]). ` +
	`You're currently on [CURRENT_TIER] with [CURRENT_FEATURES]. Upgrade to unlock it. Want a quick summary?"`

// BehaviorRule returns the tier-specific instruction for name.
func BehaviorRule(name tier.Name) string {
	if r, ok := behaviorRules[name]; ok {
		return r
	}
	return behaviorRules[tier.Default]
}

func renderSystemPrompt(companionID string, def tier.Definition, modes []tier.Mode) string {
	parts := []string{
		companion.PersonaHeader(companionID),
		tierInstruction(def, modes),
		fmt.Sprintf("Tone/length: %s.", def.ResponseStyle),
		BehaviorRule(def.Name),
		safetyClause,
		UpgradeCTATemplate,
	}
	return strings.Join(parts, " ")
}

func tierInstruction(def tier.Definition, modes []tier.Mode) string {
	return fmt.Sprintf(
		"User tier: %s. Memory: %s. Allowed modes: %s. Prompting Mastery: %s.",
		def.Name,
		describeRetention(def.MemoryRetentionDays),
		joinModes(modes),
		def.PromptingMastery,
	)
}

func describeRetention(days int) string {
	switch {
	case days == tier.UnlimitedRetention:
		return "permanent"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func joinModes(modes []tier.Mode) string {
	names := make([]string, 0, len(modes))
	for _, m := range modes {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
