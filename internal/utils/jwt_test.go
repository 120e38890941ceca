package utils

import (
	"testing"
	"time"

	"bookstore/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "iss", "aud", time.Hour)
	token, err := m.Generate(domain.User{ID: 7, Username: "ada", Role: domain.RoleAuthor})
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, domain.RoleAuthor, claims.Role)
	assert.Equal(t, "iss", claims.Issuer)
}

func TestTokenRejections(t *testing.T) {
	m := NewTokenManager("secret", "iss", "aud", time.Hour)
	user := domain.User{ID: 7, Username: "ada", Role: domain.RoleUser}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenManager("other", "iss", "aud", time.Hour).Generate(user)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.Error(t, err)
	})
	t.Run("wrong audience", func(t *testing.T) {
		token, err := NewTokenManager("secret", "iss", "elsewhere", time.Hour).Generate(user)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.Error(t, err)
	})
	t.Run("expired", func(t *testing.T) {
		past := NewTokenManager("secret", "iss", "aud", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.Generate(user)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})
	t.Run("unsigned", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: domain.RoleAdmin}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.Error(t, err)
	})
	t.Run("missing identity", func(t *testing.T) {
		token, err := m.Generate(domain.User{Username: "ghost", Role: domain.RoleUser})
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.Error(t, err)
	})
}
