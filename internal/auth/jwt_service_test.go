package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
}

func TestJWTService_UnconfiguredSecret(t *testing.T) {
	svc := NewJWTService("")
	_, err := svc.GenerateToken(uuid.New(), "test@example.com")
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(uuid.New(), "test@example.com")
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
