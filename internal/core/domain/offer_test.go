package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityKey_Deterministic(t *testing.T) {
	a := IdentityKey("DEL", "HAN", "2026-11-02T10:15:00", "12345.00", "VN")
	b := IdentityKey("DEL", "HAN", "2026-11-02T10:15:00", "12345.00", "VN")

	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", a)
}

func TestIdentityKey_DiffersPerInput(t *testing.T) {
	base := []string{"DEL", "HAN", "2026-11-02T10:15:00", "12345.00", "VN"}
	key := IdentityKey(base[0], base[1], base[2], base[3], base[4])

	variants := [][]string{
		{"BOM", "HAN", "2026-11-02T10:15:00", "12345.00", "VN"},
		{"DEL", "SGN", "2026-11-02T10:15:00", "12345.00", "VN"},
		{"DEL", "HAN", "2026-11-02T10:16:00", "12345.00", "VN"},
		{"DEL", "HAN", "2026-11-02T10:15:00", "12345.0", "VN"},
		{"DEL", "HAN", "2026-11-02T10:15:00", "12345.00", "AI"},
	}

	for _, v := range variants {
		assert.NotEqual(t, key, IdentityKey(v[0], v[1], v[2], v[3], v[4]), v)
	}
}

func TestIdentityKey_KnownValue(t *testing.T) {
	// First 32 hex characters of sha256("DEL|HAN|2026-11-02T10:15:00|12345.00|VN").
	assert.Equal(t, "9b131f1925f287a60adee24376c3c189", IdentityKey("DEL", "HAN", "2026-11-02T10:15:00", "12345.00", "VN"))
}

func TestFlightTypeForSegments(t *testing.T) {
	assert.Equal(t, FlightTypeNonstop, FlightTypeForSegments(1))
	assert.Equal(t, FlightTypeConnecting, FlightTypeForSegments(2))
	assert.Equal(t, FlightTypeConnecting, FlightTypeForSegments(3))
}

func TestFlightType_IsValid(t *testing.T) {
	assert.True(t, FlightTypeNonstop.IsValid())
	assert.True(t, FlightTypeConnecting.IsValid())
	assert.False(t, FlightType("Direct").IsValid())
	assert.Equal(t, "Nonstop", FlightTypeNonstop.String())
}

func TestFlightOffer_Validate(t *testing.T) {
	rain := 0.4
	offer := FlightOffer{IdentityKey: "abc", FlightType: FlightTypeNonstop, RainProbability: &rain}
	require.NoError(t, offer.Validate())

	empty := FlightOffer{}
	assert.ErrorIs(t, empty.Validate(), ErrInvalidInput)

	badType := FlightOffer{IdentityKey: "abc", FlightType: "Direct"}
	assert.ErrorIs(t, badType.Validate(), ErrInvalidInput)

	tooWet := 1.5
	badRain := FlightOffer{IdentityKey: "abc", RainProbability: &tooWet}
	assert.ErrorIs(t, badRain.Validate(), ErrInvalidInput)
}

func TestUpsertStats_Total(t *testing.T) {
	assert.Equal(t, 5, UpsertStats{Inserted: 2, Updated: 3}.Total())
	assert.Equal(t, 0, UpsertStats{}.Total())
}
