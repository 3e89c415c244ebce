package behavior

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/tier"
)

func TestCacheMatchesAssemble(t *testing.T) {
	c, err := NewCache(0)
	require.NoError(t, err)

	uc := UserContext{Tier: tier.Regent, ChosenCompanion: "vanessa", Features: tier.Features{Voice: true}}
	first := c.Assemble(uc)
	second := c.Assemble(uc)

	if diff := cmp.Diff(Assemble(uc), first); diff != "" {
		t.Fatalf("cached config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())
}

func TestCacheNormalisesKeys(t *testing.T) {
	c, err := NewCache(8)
	require.NoError(t, err)

	c.Assemble(UserContext{Tier: "platinum"})
	c.Assemble(UserContext{Tier: tier.Novice, ChosenCompanion: "sophia"})
	assert.Equal(t, 1, c.Len())

	c.Assemble(UserContext{Tier: tier.Novice, ChosenCompanion: "aurora"})
	assert.Equal(t, 2, c.Len())
}

func TestCacheReturnsCopies(t *testing.T) {
	c, err := NewCache(8)
	require.NoError(t, err)

	uc := UserContext{Tier: tier.Sovereign}
	cfg := c.Assemble(uc)
	cfg.AllowedModes[0] = "tampered"

	assert.Equal(t, tier.ModeText, c.Assemble(uc).AllowedModes[0])
}

func TestCacheEvicts(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	for _, name := range tier.Names() {
		c.Assemble(UserContext{Tier: name})
	}
	assert.Equal(t, 2, c.Len())
}
