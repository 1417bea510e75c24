package user

import (
	"crypto/rand"
	"errors"
	"time"

	"mycarts/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "mycarts"

// tokenClaims carries the user id as the subject; the username is informational.
type tokenClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
}

// newTokenManager signs with secret; an empty secret is replaced by a random per-process key.
func newTokenManager(secret []byte, ttl time.Duration) *tokenManager {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}
	return &tokenManager{secret: secret, ttl: ttl}
}

func (m *tokenManager) Issue(u domain.User, now time.Time) (string, error) {
	claims := tokenClaims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate checks signature, issuer and expiry and returns the claims.
func (m *tokenManager) Validate(raw string, now time.Time) (*tokenClaims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.Username == "" {
		return nil, errors.New("token has no subject")
	}
	return &claims, nil
}
