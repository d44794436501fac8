package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateTokenPair(t *testing.T) {
	tokens, err := GenerateTokenPair(7, "owner@store.local", "owner", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, tokens)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	access, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, access.TokenType)

	refresh, err := ValidateToken(tokens.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestValidateToken(t *testing.T) {
	tokens, err := GenerateTokenPair(123, "editor@store.local", "editor", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid access token", token: tokens.AccessToken, secret: testSecret},
		{name: "Valid refresh token", token: tokens.RefreshToken, secret: testSecret},
		{name: "Wrong secret", token: tokens.AccessToken, secret: "wrong-secret", wantErr: ErrInvalidToken},
		{name: "Garbage", token: "invalid.token.format", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty token", token: "", secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(123), claims.UserID)
			assert.Equal(t, "editor@store.local", claims.Email)
			assert.Equal(t, "editor", claims.Role)
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "owner@store.local", "owner", testSecret, -time.Minute, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenClaims_Timestamps(t *testing.T) {
	tokens, err := GenerateTokenPair(42, "owner@store.local", "owner", testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))
}
