package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAPIKey(t *testing.T) {
	key := strings.Repeat("k3y", 10)

	hash, err := HashAPIKey(key)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)))
}

func TestHashAPIKey_RejectsWeakKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"too short", "short"},
		{"too long", strings.Repeat("a", 73)},
		{"padded", " " + strings.Repeat("a", 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HashAPIKey(tt.key)
			assert.ErrorIs(t, err, ErrWeakAPIKey)
		})
	}
}

func TestAPIKeyAuth_Validate(t *testing.T) {
	key := strings.Repeat("x", 32)
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	auth := NewAPIKeyAuth(string(hash))

	assert.True(t, auth.Enabled())
	assert.NoError(t, auth.Validate(key))
	assert.ErrorIs(t, auth.Validate("wrong"), ErrInvalidAPIKey)
	assert.ErrorIs(t, auth.Validate(""), ErrInvalidAPIKey)
	assert.ErrorIs(t, auth.Validate(strings.Repeat("x", 80)), ErrInvalidAPIKey)
}

func TestAPIKeyAuth_DisabledWithoutHash(t *testing.T) {
	auth := NewAPIKeyAuth("  ")
	assert.False(t, auth.Enabled())
	assert.NoError(t, auth.Validate(""))
}
