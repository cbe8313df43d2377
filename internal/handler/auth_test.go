package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 32 {
		code, err := randomCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// Not a randomness test, just a sanity check against a constant output.
	assert.Greater(t, len(seen), 1)
}

func TestHashToken(t *testing.T) {
	a := hashToken("token-a")
	b := hashToken("token-b")

	assert.Len(t, a, 64)
	assert.Equal(t, a, hashToken("token-a"))
	assert.NotEqual(t, a, b)
}
