package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenHelper_SignAndVerify(t *testing.T) {
	helper := NewTokenHelper("test-secret", time.Hour)

	token, err := helper.Sign(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := helper.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenHelper_VerifyFailsClosed(t *testing.T) {
	helper := NewTokenHelper("test-secret", time.Hour)

	token, err := helper.Sign(42)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage", "not.a.token"},
		{"tampered", token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := helper.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenHelper_WrongSecret(t *testing.T) {
	token, err := NewTokenHelper("secret-one", time.Hour).Sign(42)
	require.NoError(t, err)

	_, err = NewTokenHelper("secret-two", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenHelper_Expired(t *testing.T) {
	helper := NewTokenHelper("test-secret", -time.Minute)

	token, err := helper.Sign(42)
	require.NoError(t, err)

	_, err = helper.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
