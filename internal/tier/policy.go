package tier

import "fmt"

// IsModeAllowed reports whether tier name grants mode. Text is always
// allowed; unknown tier names are evaluated as the default tier.
func IsModeAllowed(name Name, mode Mode) bool {
	if mode == ModeText {
		return true
	}
	for _, m := range Lookup(name).AllowedModes {
		if m == ModeAll || m == mode {
			return true
		}
	}
	return false
}

// MinimumTierFor returns the least privileged tier granting mode. When no
// tier grants it the highest tier is returned, so unknown modes fail closed.
func MinimumTierFor(mode Mode) Name {
	for i := range ordered {
		if IsModeAllowed(ordered[i].Name, mode) {
			return ordered[i].Name
		}
	}
	return Highest()
}

// Requirements returns the mode → minimum tier table for every known mode.
// It is derived from the catalog, never maintained by hand.
func Requirements() map[Mode]Name {
	out := make(map[Mode]Name, len(KnownModes()))
	for _, m := range KnownModes() {
		out[m] = MinimumTierFor(m)
	}
	return out
}

// ResolveModes returns the modes a user on def can actually use given their
// feature flags, in KnownModes order. Wildcard tiers ignore the flags.
func ResolveModes(def Definition, features Features) []Mode {
	if def.HasWildcard() {
		return KnownModes()
	}

	listed := make(map[Mode]bool, len(def.AllowedModes))
	for _, m := range def.AllowedModes {
		listed[m] = true
	}

	out := []Mode{ModeText}
	for _, m := range KnownModes() {
		if m == ModeText {
			continue
		}
		if listed[m] && features.Enables(m) {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks the catalog invariants: strictly increasing prices, every
// tier's mode list a superset of the tier below it (the wildcard counts as a
// superset of everything), and each listed mode requiring at most that tier.
func Validate() error {
	for i := range ordered {
		def := ordered[i]
		if !def.Name.Valid() {
			return fmt.Errorf("tier %q is not a declared Name", def.Name)
		}
		if i == 0 {
			continue
		}
		prev := ordered[i-1]
		if def.Price <= prev.Price {
			return fmt.Errorf("tier %s price %d does not exceed %s price %d", def.Name, def.Price, prev.Name, prev.Price)
		}
		if def.HasWildcard() {
			continue
		}
		for _, m := range prev.AllowedModes {
			if !IsModeAllowed(def.Name, m) {
				return fmt.Errorf("tier %s drops mode %q granted by %s", def.Name, m, prev.Name)
			}
		}
	}

	for i := range ordered {
		for _, m := range ordered[i].AllowedModes {
			if m == ModeAll {
				continue
			}
			if req := MinimumTierFor(m); req.Rank() > i {
				return fmt.Errorf("mode %q listed by %s requires higher tier %s", m, ordered[i].Name, req)
			}
		}
	}
	return nil
}
