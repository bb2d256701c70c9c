package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-32-characters-min",
		Issuer: "markethub",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestJWTService()
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "ada@example.com", "CUSTOMER")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "CUSTOMER", claims.Role)
	assert.Equal(t, "markethub", claims.Issuer)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := newTestJWTService().GenerateToken(uuid.New(), "ada@example.com", "CUSTOMER")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "a-completely-different-secret-key", Issuer: "markethub"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := newTestJWTService()
	service.expiration = -time.Hour

	token, err := service.GenerateToken(uuid.New(), "ada@example.com", "CUSTOMER")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	service := newTestJWTService()

	_, err := service.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
