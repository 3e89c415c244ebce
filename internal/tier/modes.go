package tier

// Mode is an interaction capability gated by tier.
type Mode string

const (
	ModeText              Mode = "text"
	ModeVoice             Mode = "voice"
	ModeVisuals           Mode = "visuals"
	ModeFinance           Mode = "finance"
	ModePersonaCustomizer Mode = "persona_customizer"

	// ModeAll is the wildcard granting every mode.
	ModeAll Mode = "all"
)

// KnownModes is the universe a wildcard tier resolves to.
func KnownModes() []Mode {
	return []Mode{ModeText, ModeVoice, ModeVisuals, ModeFinance, ModePersonaCustomizer}
}

// Known reports whether m is part of the mode universe.
func (m Mode) Known() bool {
	for _, k := range KnownModes() {
		if m == k {
			return true
		}
	}
	return false
}

// Features are per-user switches for optional modes. They only matter on
// tiers with a fixed mode list.
type Features struct {
	Voice          bool `json:"voice" firestore:"voice"`
	Visuals        bool `json:"visuals" firestore:"visuals"`
	FinanceTools   bool `json:"finance_tools" firestore:"finance_tools"`
	IntimacyModes  bool `json:"intimacy_modes" firestore:"intimacy_modes"`
	CustomPersona  bool `json:"custom_persona" firestore:"custom_persona"`
	PrivateHosting bool `json:"private_hosting" firestore:"private_hosting"`
}

// Enables reports whether the feature flags switch m on. Text needs no flag.
func (f Features) Enables(m Mode) bool {
	switch m {
	case ModeText:
		return true
	case ModeVoice:
		return f.Voice
	case ModeVisuals:
		return f.Visuals
	case ModeFinance:
		return f.FinanceTools
	case ModePersonaCustomizer:
		return f.CustomPersona
	default:
		return false
	}
}
