package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt"
)

// HashToken computes a SHA-256 hash of the token string. Cache keys are
// derived from this so the raw token never lands in Redis.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenExpiry reads the exp claim from a JWT without verifying the
// signature. The relay holds no signing secret; the backend is the
// verifier. The result only bounds cache TTLs and lets the gate drop
// cookies that are already past their expiry.
func TokenExpiry(tokenString string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, nil
	}
	return time.Unix(int64(exp), 0), nil
}

// TokenPreview returns a redacted form of a token safe for log lines.
// Never log a token any other way.
func TokenPreview(token string) string {
	if token == "" {
		return "none"
	}
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}
