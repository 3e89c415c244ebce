// Package behavior turns a user's tier, feature flags and companion into the
// generation configuration handed to the LLM.
package behavior

import (
	"github.com/PabloGalante/throne-companions/internal/companion"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

// UserContext is the per-request view of the user the assembler works from.
type UserContext struct {
	Tier            tier.Name
	ChosenCompanion string
	Features        tier.Features
}

// MemoryPolicy describes how long conversation memory is kept.
type MemoryPolicy struct {
	RetentionDays int  `json:"retention_days"`
	Unlimited     bool `json:"unlimited"`
}

// Config is the resolved generation configuration for one request. It is
// recomputed on every request and never persisted.
type Config struct {
	SystemPrompt     string             `json:"system_prompt"`
	MemoryPolicy     MemoryPolicy       `json:"memory_policy"`
	AllowedModes     []tier.Mode        `json:"allowed_modes"`
	ResponseStyle    tier.ResponseStyle `json:"response_style"`
	PromptingMastery string             `json:"prompting_mastery"`
	ToolsEnabled     []string           `json:"tools_enabled"`
	Tier             tier.Name          `json:"tier"`
	CompanionID      string             `json:"companion_id"`
}

// Allows reports whether mode is in the resolved mode set.
func (c Config) Allows(mode tier.Mode) bool {
	for _, m := range c.AllowedModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Assemble builds the Config for uc. It is deterministic and performs no I/O.
// Unknown tiers resolve to the default tier, unknown companions get a
// generic persona header.
func Assemble(uc UserContext) Config {
	def := tier.Lookup(uc.Tier)

	companionID := uc.ChosenCompanion
	if companionID == "" {
		companionID = companion.Default
	}

	modes := tier.ResolveModes(def, uc.Features)

	return Config{
		SystemPrompt: renderSystemPrompt(companionID, def, modes),
		MemoryPolicy: MemoryPolicy{
			RetentionDays: def.MemoryRetentionDays,
			Unlimited:     def.UnlimitedMemory(),
		},
		AllowedModes:     modes,
		ResponseStyle:    def.ResponseStyle,
		PromptingMastery: def.PromptingMastery,
		ToolsEnabled:     def.ToolsEnabled,
		Tier:             def.Name,
		CompanionID:      companionID,
	}
}
