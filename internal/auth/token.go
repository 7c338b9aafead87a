// Package auth resolves caller identity: it verifies LINE access tokens
// against the LINE profile API and mints the session tokens the HTTP
// layer authenticates with.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// TokenIssuer mints and parses HMAC-signed session tokens. The subject
// claim carries the member id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenIssuer(secret string, ttl time.Duration, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (t *TokenIssuer) Issue(memberID string) (string, error) {
	now := t.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   memberID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates the token and returns the member id. Any failure maps
// to ErrUnauthenticated; callers need no finer distinction.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, domain.ErrUnauthenticated
			}
			return t.secret, nil
		},
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.Subject, nil
}
