package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func TestNewService(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	assert.NotNil(t, service)
	assert.Equal(t, testSecret, service.secret)
	assert.Equal(t, time.Hour, service.accessTokenExpiry)
}

func TestGenerateAccessToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	userID := uuid.New()

	token, err := service.GenerateAccessToken(userID, "jordan@example.com", "user")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the generated token
	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jordan@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "skyvoyage-booking", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateAccessToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	userID := uuid.New()

	token, err := service.GenerateAccessToken(userID, "admin@example.com", "admin")
	require.NoError(t, err)

	// Test valid token
	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	// Test invalid token
	_, err = service.ValidateAccessToken("invalid.token.here")
	assert.Error(t, err)

	// Test token with wrong secret
	wrongService := NewService("wrong-secret", time.Hour)
	_, err = wrongService.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	service := NewService(testSecret, -time.Minute)
	userID := uuid.New()

	token, err := service.GenerateAccessToken(userID, "jordan@example.com", "user")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.True(t, service.IsTokenExpired(token))
}

func TestValidateAccessToken_RejectsNoneAlgorithm(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	claims := Claims{
		UserID: uuid.New(),
		Email:  "jordan@example.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(tokenString)
	assert.Error(t, err)
}

func TestIsTokenExpired(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateAccessToken(uuid.New(), "jordan@example.com", "user")
	require.NoError(t, err)
	assert.False(t, service.IsTokenExpired(token))

	assert.True(t, service.IsTokenExpired("garbage"))
}

func TestExtractClaims(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	userID := uuid.New()

	token, err := service.GenerateAccessToken(userID, "jordan@example.com", "user")
	require.NoError(t, err)

	claims, err := service.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}
