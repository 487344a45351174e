package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongevity_NameRoundTrip(t *testing.T) {
	for _, l := range []Longevity{LongevityTransient, LongevitySession, LongevityDurable} {
		parsed, err := ParseLongevity(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
}

func TestLongevity_Names(t *testing.T) {
	assert.Equal(t, "transient", LongevityTransient.String())
	assert.Equal(t, "session", LongevitySession.String())
	assert.Equal(t, "durable", LongevityDurable.String())
}

func TestParseLongevity_Unknown(t *testing.T) {
	for _, name := range []string{"", "0", "Transient", "immortal"} {
		_, err := ParseLongevity(name)
		assert.ErrorIs(t, err, ErrUnknownLongevity, "name %q", name)
	}
}

func TestLongevity_Valid(t *testing.T) {
	assert.True(t, LongevityTransient.Valid())
	assert.True(t, LongevityDurable.Valid())
	assert.False(t, Longevity(-1).Valid())
	assert.False(t, Longevity(42).Valid())
}
