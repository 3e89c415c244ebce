package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/throne-companions/internal/tier"
)

func TestDecodePayloadRoundTrip(t *testing.T) {
	in := TierChange{From: tier.Novice, To: tier.Regent, Reason: "upgrade"}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := DecodePayload(EventTierChange, raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, EventTierChange, out.EventType())
}

func TestDecodePayloadEmptyData(t *testing.T) {
	out, err := DecodePayload(EventSessionStart, nil)
	require.NoError(t, err)
	assert.Equal(t, SessionStart{}, out)
}

func TestDecodePayloadUnknownType(t *testing.T) {
	_, err := DecodePayload("bogus", []byte(`{}`))
	assert.Error(t, err)
}

func TestParseConsentType(t *testing.T) {
	c, err := ParseConsentType("therapy")
	require.NoError(t, err)
	assert.Equal(t, ConsentTherapy, c)

	_, err = ParseConsentType("gambling")
	assert.Error(t, err)
}
