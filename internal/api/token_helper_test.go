package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtClaims builds tokens with arbitrary timestamps.
type jwtClaims struct {
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c jwtClaims) sign(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": c.UserID,
		"role":   c.Role,
		"iat":    c.IssuedAt.Unix(),
		"exp":    c.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}
