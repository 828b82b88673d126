package verisafe

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/opencrafts-io/keepup/internal/common"
)

const (
	tokenIssuer   = "https://verisafe.opencrafts.io/"
	tokenAudience = "https://academia.opencrafts.io/"
)

// Claims carries the subset of the Verisafe token payload the service
// cares about.
type Claims struct {
	UserID uuid.UUID
	jwt.RegisteredClaims
}

type rawClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// VerifyToken validates a Verisafe-issued HS256 access token and returns
// its claims. Expired tokens map to common.ErrTokenExpired, everything
// else that fails validation maps to common.ErrInvalidToken.
func VerifyToken(tokenString, secret string) (*Claims, error) {
	var raw rawClaims
	_, err := jwt.ParseWithClaims(tokenString, &raw,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%v: %w", err, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%v: %w", err, common.ErrInvalidToken)
	}

	userID, err := uuid.Parse(raw.UserID)
	if err != nil {
		return nil, fmt.Errorf("user_id claim: %v: %w", err, common.ErrInvalidToken)
	}

	return &Claims{UserID: userID, RegisteredClaims: raw.RegisteredClaims}, nil
}
