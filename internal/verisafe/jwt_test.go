package verisafe

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencrafts-io/keepup/internal/common"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(userID uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID.String(),
		"iss":     tokenIssuer,
		"aud":     tokenAudience,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifyToken(t *testing.T) {
	userID := uuid.New()
	tokenString := signToken(t, testSecret, validClaims(userID))

	claims, err := VerifyToken(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestVerifyTokenExpired(t *testing.T) {
	claims := validClaims(uuid.New())
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	tokenString := signToken(t, testSecret, claims)

	_, err := VerifyToken(tokenString, testSecret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerifyTokenInvalid(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, "other-secret", validClaims(userID))},
		{"wrong issuer", signToken(t, testSecret, jwt.MapClaims{
			"user_id": userID.String(),
			"iss":     "https://evil.example.com/",
			"aud":     tokenAudience,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})},
		{"wrong audience", signToken(t, testSecret, jwt.MapClaims{
			"user_id": userID.String(),
			"iss":     tokenIssuer,
			"aud":     "https://other.example.com/",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})},
		{"missing expiry", signToken(t, testSecret, jwt.MapClaims{
			"user_id": userID.String(),
			"iss":     tokenIssuer,
			"aud":     tokenAudience,
		})},
		{"bad user id", signToken(t, testSecret, jwt.MapClaims{
			"user_id": "not-a-uuid",
			"iss":     tokenIssuer,
			"aud":     tokenAudience,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})},
		{"garbage", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(tt.token, testSecret)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}
