package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, CheckPassword("correct horse battery staple", hash))
	assert.ErrorIs(t, CheckPassword("wrong password", hash), ErrInvalidPassword)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := CheckPassword("anything", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPassword)
}

func TestIsHashStale(t *testing.T) {
	hash, err := HashPassword("password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, IsHashStale(hash, bcrypt.MinCost+1))
	assert.False(t, IsHashStale(hash, bcrypt.MinCost))

	// Anything that is not a bcrypt hash counts as legacy.
	assert.True(t, IsHashStale("plaintext-from-an-old-import", bcrypt.MinCost))
	assert.True(t, IsHashStale("", bcrypt.MinCost))
}
