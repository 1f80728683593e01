package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123", 4) // min cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "secret124"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	h2, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	// Each call embeds a fresh salt, so hashes differ while both verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "secret123"))
	assert.True(t, VerifyPassword(h2, "secret123"))
}
