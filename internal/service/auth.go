package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAPIKey = errors.New("invalid api key")
	ErrWeakAPIKey    = errors.New("api key does not meet requirements")
)

const (
	minAPIKeyLength = 24
	// bcrypt only looks at the first 72 bytes.
	maxAPIKeyLength = 72
)

// APIKeyAuth checks bearer keys against a bcrypt hash. An empty hash
// disables authentication.
type APIKeyAuth struct {
	hash []byte
}

func NewAPIKeyAuth(hash string) *APIKeyAuth {
	return &APIKeyAuth{hash: []byte(strings.TrimSpace(hash))}
}

func (a *APIKeyAuth) Enabled() bool {
	return len(a.hash) > 0
}

func (a *APIKeyAuth) Validate(key string) error {
	if !a.Enabled() {
		return nil
	}
	if key == "" || len(key) > maxAPIKeyLength {
		return ErrInvalidAPIKey
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(key)); err != nil {
		return ErrInvalidAPIKey
	}
	return nil
}

// HashAPIKey returns the bcrypt hash to put in the config file.
func HashAPIKey(key string) (string, error) {
	if err := validateAPIKeyStrength(key); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWeakAPIKey, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateAPIKeyStrength(key string) error {
	if len(key) < minAPIKeyLength {
		return fmt.Errorf("must be at least %d characters", minAPIKeyLength)
	}
	if len(key) > maxAPIKeyLength {
		return fmt.Errorf("must be at most %d bytes", maxAPIKeyLength)
	}
	if strings.TrimSpace(key) != key {
		return errors.New("must not start or end with whitespace")
	}
	return nil
}
