package behavior

import (
	"fmt"

	"github.com/PabloGalante/throne-companions/internal/tier"
)

// RenderUpgrade returns the upgrade call to action shown when a user on
// current asks for feature, which needs target. The text is stable for a
// given input.
func RenderUpgrade(current, target tier.Name, feature string) string {
	cur := tier.Lookup(current)
	tgt := tier.Lookup(target)

	subject := "it's"
	if feature != "" {
		subject = feature + " is"
	}

	return fmt.Sprintf(
		"I can do that — %s a %s feature (%s). You're currently on %s with (%s). Upgrade to unlock it. Want a quick summary?",
		subject,
		tgt.DisplayName,
		joinModes(tgt.AllowedModes),
		cur.DisplayName,
		joinModes(cur.AllowedModes),
	)
}

// RenderFeatureDisabled explains that current grants feature but the user
// has switched it off.
func RenderFeatureDisabled(current tier.Name, feature string) string {
	return fmt.Sprintf(
		"%s is included in %s but it is switched off in your settings. Turn it on to use it.",
		feature,
		tier.Lookup(current).DisplayName,
	)
}
