package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that are malformed or whose
// signature does not verify against the configured secret.
var ErrInvalidToken = errors.New("invalid token")

// JWTUtil signs and verifies compact tokens carrying a subject and expiry.
type JWTUtil struct {
	secretKey         string
	expirationSeconds int64
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, expirationSeconds int64) *JWTUtil {
	return &JWTUtil{secretKey: secretKey, expirationSeconds: expirationSeconds}
}

// ExpirationSeconds reports the configured token lifetime.
func (ju *JWTUtil) ExpirationSeconds() int64 {
	return ju.expirationSeconds
}

// GenerateToken signs a token for the given subject with HMAC-SHA512,
// expiring after the configured lifetime.
func (ju *JWTUtil) GenerateToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ju.expirationSeconds) * time.Second)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (ju *JWTUtil) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	})
	return claims, err
}

// SubjectFromToken verifies the signature and returns the subject claim.
// A token that is merely expired still yields its subject; callers that care
// about expiry use IsExpired or ValidateToken.
func (ju *JWTUtil) SubjectFromToken(tokenString string) (string, error) {
	claims, err := ju.parse(tokenString)
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Subject, nil
}

// IsExpired reports whether the token's expiry has passed. Malformed or
// badly signed tokens fail with ErrInvalidToken.
func (ju *JWTUtil) IsExpired(tokenString string) (bool, error) {
	_, err := ju.parse(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return true, nil
		}
		return false, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return false, nil
}

// ValidateToken reports whether the token has a valid signature, carries the
// expected subject, and has not expired.
func (ju *JWTUtil) ValidateToken(tokenString, subject string) bool {
	claims, err := ju.parse(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == subject
}
