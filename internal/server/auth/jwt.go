// Package auth issues and validates the HS256 access tokens clients send to
// the album feed.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs a token for subject that expires after validity.
func GenerateToken(subject string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
	})

	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}

// ValidateToken checks signature and expiry and returns the subject.
func ValidateToken(tokenString string, secretKey []byte) (string, error) {
	if tokenString == "" {
		return "", common.ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", common.ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
