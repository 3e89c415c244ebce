package companion

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/throne-companions/internal/tier"
)

func TestLookup(t *testing.T) {
	c, ok := Lookup(Vanessa)
	assert.True(t, ok)
	assert.Equal(t, "Vanessa", c.Name)

	_, ok = Lookup("cassian")
	assert.False(t, ok)
	assert.False(t, Valid(""))
	assert.ElementsMatch(t, []string{Sophia, Aurora, Vanessa}, IDs())
}

func TestPersonaHeaderFallback(t *testing.T) {
	assert.Contains(t, PersonaHeader(Sophia), "You are Sophia")
	assert.Equal(t, "You are cassian — a respectful AI mentor.", PersonaHeader("cassian"))
}

func TestStyle(t *testing.T) {
	s, ok := Style(Vanessa)
	assert.True(t, ok)
	assert.Equal(t, "direct, confident, street-smart advisor", s)

	_, ok = Style("nobody")
	assert.False(t, ok)
}

func TestEveryCompanionHasAPackPerTier(t *testing.T) {
	for _, id := range IDs() {
		for _, n := range tier.Names() {
			p := Pack(id, n)
			assert.NotEmpty(t, p.Intro, "%s/%s intro", id, n)
			assert.NotEmpty(t, p.Rituals, "%s/%s rituals", id, n)
			assert.NotEmpty(t, p.Prompts, "%s/%s prompts", id, n)
		}
	}
}

func TestPackFallbacks(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	assert.Equal(t, "Hello, I'm cassian.", Intro("cassian", tier.Novice))
	assert.Equal(t, "Take a moment to breathe deeply and center yourself.", Ritual("cassian", tier.Novice, rng))
	assert.Equal(t, "What's on your mind today?", FallbackPrompt("cassian", tier.Novice, rng))

	got := Ritual(Aurora, tier.Regent, rng)
	assert.Contains(t, Pack(Aurora, tier.Regent).Rituals, got)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Sophia", DisplayName(Sophia))
	assert.Equal(t, "Cassian", DisplayName("cassian"))
	assert.Equal(t, "", DisplayName(""))
}
