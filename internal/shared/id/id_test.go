package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator()

	assert.NotEqual(t, gen.Generate().String(), gen.Generate().String())
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{SessionPrefix, RequestPrefix} {
		t.Run(prefix, func(t *testing.T) {
			value := gen.GenerateWithPrefix(prefix)

			parts := strings.Split(value, "_")
			require.Len(t, parts, 2)
			assert.Equal(t, prefix, parts[0])
			assert.True(t, IsValid(parts[1]))
		})
	}
}

func TestTypedIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewSessionID().String(), "sess_"))
	assert.True(t, strings.HasPrefix(NewRequestID().String(), "req_"))
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("not-a-ulid"))
	assert.True(t, IsValid(NewGenerator().Generate().String()))
}

func TestParseRequestID(t *testing.T) {
	rid := NewRequestID()

	parsed, ok := ParseRequestID(rid.String())
	assert.True(t, ok)
	assert.Equal(t, rid, parsed)

	for _, bad := range []string{"", "req_", "req_nope", "sess_" + NewGenerator().Generate().String(), NewGenerator().Generate().String()} {
		_, ok := ParseRequestID(bad)
		assert.False(t, ok, bad)
	}
}
