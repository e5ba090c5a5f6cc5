package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-session-testing"

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken("admin", testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
}

func TestValidateSessionToken(t *testing.T) {
	valid, err := GenerateSessionToken("admin", testSecret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateSessionToken("admin", testSecret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid token", token: valid, secret: testSecret},
		{name: "Wrong secret", token: valid, secret: "other-secret", wantErr: ErrInvalidToken},
		{name: "Expired token", token: expired, secret: testSecret, wantErr: ErrExpiredToken},
		{name: "Garbage", token: "not-a-token", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty", token: "", secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateSessionToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.Username)
		})
	}
}
