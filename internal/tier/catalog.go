// Package tier holds the subscription tier catalog and the access policy
// derived from it.
package tier

import "strings"

// Name identifies a subscription tier.
type Name string

const (
	Novice     Name = "novice"
	Apprentice Name = "apprentice"
	Regent     Name = "regent"
	Sovereign  Name = "sovereign"
)

// Default is returned for unknown or empty tier names.
const Default = Novice

// UnlimitedRetention marks a tier whose memory is never pruned.
const UnlimitedRetention = -1

// ResponseStyle describes how long and how formal replies should be.
type ResponseStyle struct {
	Length    string `json:"length" yaml:"length"`
	Formality string `json:"formality" yaml:"formality"`
}

func (s ResponseStyle) String() string {
	return s.Length + ", " + s.Formality
}

// Definition is the immutable description of a tier.
type Definition struct {
	Name                Name          `json:"name"`
	DisplayName         string        `json:"display_name"`
	Price               int           `json:"price"`
	MemoryRetentionDays int           `json:"memory_retention_days"`
	AllowedModes        []Mode        `json:"allowed_modes"`
	ToolsEnabled        []string      `json:"tools_enabled"`
	PromptingMastery    string        `json:"prompting_mastery"`
	ResponseStyle       ResponseStyle `json:"response_style"`
}

// UnlimitedMemory reports whether the tier keeps memory forever.
func (d Definition) UnlimitedMemory() bool {
	return d.MemoryRetentionDays == UnlimitedRetention
}

// HasWildcard reports whether the tier grants every mode.
func (d Definition) HasWildcard() bool {
	for _, m := range d.AllowedModes {
		if m == ModeAll {
			return true
		}
	}
	return false
}

// ordered lists every tier from least to most privileged. Rank is the index.
var ordered = [...]Definition{
	{
		Name:                Novice,
		DisplayName:         "Novice - Scroll of Truth",
		Price:               0,
		MemoryRetentionDays: 1,
		AllowedModes:        []Mode{ModeText},
		ToolsEnabled:        []string{},
		PromptingMastery:    "clarity",
		ResponseStyle:       ResponseStyle{Length: "short", Formality: "warm"},
	},
	{
		Name:                Apprentice,
		DisplayName:         "Apprentice - Scroll of Power & Humility",
		Price:               19,
		MemoryRetentionDays: 7,
		AllowedModes:        []Mode{ModeText, ModeVoice, ModeVisuals},
		ToolsEnabled:        []string{"rituals", "growth_tracking"},
		PromptingMastery:    "depth",
		ResponseStyle:       ResponseStyle{Length: "medium", Formality: "warm"},
	},
	{
		Name:                Regent,
		DisplayName:         "Regent - Scroll of Dominion",
		Price:               49,
		MemoryRetentionDays: 3650,
		AllowedModes:        []Mode{ModeText, ModeVoice, ModeVisuals, ModeFinance},
		ToolsEnabled:        []string{"rituals", "growth_tracking", "finance", "custom_packs"},
		PromptingMastery:    "creation",
		ResponseStyle:       ResponseStyle{Length: "long", Formality: "regal"},
	},
	{
		Name:                Sovereign,
		DisplayName:         "Sovereign - Scroll of Conjoint Minds",
		Price:               99,
		MemoryRetentionDays: UnlimitedRetention,
		AllowedModes:        []Mode{ModeAll},
		ToolsEnabled:        []string{"rituals", "growth_tracking", "finance", "custom_packs", "persona_customizer", "private_hosting"},
		PromptingMastery:    "co-creation",
		ResponseStyle:       ResponseStyle{Length: "long", Formality: "regal"},
	},
}

// Parse normalizes s and reports whether it names a known tier.
func Parse(s string) (Name, bool) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	if n.Valid() {
		return n, true
	}
	return Default, false
}

// Valid returns true if the tier is a known value.
func (n Name) Valid() bool {
	switch n {
	case Novice, Apprentice, Regent, Sovereign:
		return true
	default:
		return false
	}
}

// Rank returns the position of n in the privilege order. Unknown names rank
// as the default tier.
func (n Name) Rank() int {
	for i := range ordered {
		if ordered[i].Name == n {
			return i
		}
	}
	return 0
}

// Outranks reports whether n is strictly more privileged than other.
func (n Name) Outranks(other Name) bool {
	return n.Rank() > other.Rank()
}

// Lookup returns the definition for name, or the default tier's definition
// when name is empty or unknown. It never fails.
func Lookup(name Name) Definition {
	for i := range ordered {
		if ordered[i].Name == name {
			return clone(ordered[i])
		}
	}
	return clone(ordered[0])
}

// All returns every tier definition in increasing privilege order.
func All() []Definition {
	out := make([]Definition, 0, len(ordered))
	for i := range ordered {
		out = append(out, clone(ordered[i]))
	}
	return out
}

// Names returns every tier name in increasing privilege order.
func Names() []Name {
	out := make([]Name, 0, len(ordered))
	for i := range ordered {
		out = append(out, ordered[i].Name)
	}
	return out
}

// Highest returns the most privileged tier.
func Highest() Name {
	return ordered[len(ordered)-1].Name
}

// clone copies the slices so callers cannot mutate the catalog.
func clone(d Definition) Definition {
	d.AllowedModes = append([]Mode(nil), d.AllowedModes...)
	d.ToolsEnabled = append([]string{}, d.ToolsEnabled...)
	return d
}
