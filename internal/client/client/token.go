package client

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the access token attached to remote requests.
type TokenSource interface {
	Token() (string, error)
}

// JWTSource mints short-lived HS256 tokens signed with a shared secret.
type JWTSource struct {
	secret  []byte
	subject string
	ttl     time.Duration
	now     func() time.Time
}

func NewJWTSource(secret, subject string, ttl time.Duration) *JWTSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &JWTSource{secret: []byte(secret), subject: subject, ttl: ttl, now: time.Now}
}

func (s *JWTSource) Token() (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   s.subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
