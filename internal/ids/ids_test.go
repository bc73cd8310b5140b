package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7_Format(t *testing.T) {
	id := UUIDv7{}.NewID()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Len(t, id, 36)
}

func TestUUIDv7_Unique(t *testing.T) {
	gen := UUIDv7{}
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestFixed(t *testing.T) {
	gen := NewFixed("a", "b")
	assert.Equal(t, "a", gen.NewID())
	assert.Equal(t, "b", gen.NewID())
	assert.Panics(t, func() { gen.NewID() })
}

func TestShortHex(t *testing.T) {
	assert.Equal(t, "440000", ShortHex("550e8400-e29b-41d4-a716-446655440000", 6))
	assert.Equal(t, "abc", ShortHex("a-b-c", 6))
}
