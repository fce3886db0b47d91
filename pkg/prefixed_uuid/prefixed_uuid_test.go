package prefixed_uuid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneratesUniqueIDs(t *testing.T) {
	a := New("req")
	b := New("req")

	assert.Equal(t, "req", a.Prefix)
	assert.NotEqual(t, a.UUID, b.UUID)
	assert.True(t, strings.HasPrefix(a.String(), "req-"))
}

func TestFromStringRoundTrip(t *testing.T) {
	original := New("chat")

	parsed, err := FromString(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestFromStringRejectsInvalidInput(t *testing.T) {
	_, err := FromString("noprefix")
	assert.Error(t, err)

	_, err = FromString("req-not-a-uuid")
	assert.Error(t, err)
}

func TestIsZero(t *testing.T) {
	var zero PrefixedUUID
	assert.True(t, zero.IsZero())
	assert.False(t, New("req").IsZero())
}

func TestRawUUID(t *testing.T) {
	id := uuid.New()
	p := PrefixedUUID{Prefix: "req", UUID: id}
	assert.Equal(t, id, p.RawUUID())
}
