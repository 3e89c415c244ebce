package behavior

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/PabloGalante/throne-companions/internal/companion"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

// DefaultCacheSize covers every tier, companion and feature combination a
// normal deployment sees.
const DefaultCacheSize = 256

type cacheKey struct {
	tier      tier.Name
	companion string
	features  tier.Features
}

// Cache memoises Assemble. Assemble is deterministic so entries never go
// stale; the LRU only bounds memory when companion IDs are unbounded.
type Cache struct {
	entries *lru.Cache[cacheKey, Config]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, Config](size)
	if err != nil {
		return nil, fmt.Errorf("creating behavior cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Assemble returns the cached Config for uc, building it on a miss. The
// returned slices are copies the caller may modify.
func (c *Cache) Assemble(uc UserContext) Config {
	key := cacheKey{
		tier:      tier.Lookup(uc.Tier).Name,
		companion: uc.ChosenCompanion,
		features:  uc.Features,
	}
	if key.companion == "" {
		key.companion = companion.Default
	}

	cfg, ok := c.entries.Get(key)
	if !ok {
		cfg = Assemble(uc)
		c.entries.Add(key, cfg)
	}
	return cfg.clone()
}

// Len reports the number of cached configurations.
func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c Config) clone() Config {
	c.AllowedModes = slices.Clone(c.AllowedModes)
	c.ToolsEnabled = slices.Clone(c.ToolsEnabled)
	return c
}
