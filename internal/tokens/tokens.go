package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the payload shared by access, refresh and password reset
// tokens: subject is the account email, AuthProvider names the identity
// source that vouched for it.
type Claims struct {
	AuthProvider string `json:"auth_provider"`
	jwt.RegisteredClaims
}

// New signs a token for email with the given secret, expiring at
// now+ttl. Access and refresh tokens differ only by the secret they are
// signed with, so leaking one never forges the other.
func New(email, provider string, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		AuthProvider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies the signature before trusting anything else. An
// expired but validly signed token returns its claims together with
// ErrExpiredToken so callers can distinguish the two failure modes.
func Parse(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return &claims, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
