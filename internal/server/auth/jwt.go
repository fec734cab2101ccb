// Package auth implements token issuance and verification for the
// Resonance server: HS256 access tokens carrying the caller's global role,
// refresh tokens carrying a rotation id (jti), and one-time dev auth codes.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resonance-app/resonance/internal/common"
)

// AccessClaims are the claims embedded in access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// RefreshClaims are the claims embedded in refresh tokens. ID (jti) keys the
// server-side refresh_tokens row used for rotation and revocation.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// GenerateAccessToken mints an HS256 access token for userID with the given
// global role and validity window.
func GenerateAccessToken(userID, role string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Role: role,
	})
	return token.SignedString(secretKey)
}

// GenerateRefreshToken mints an HS256 refresh token for userID whose jti is
// tokenID, the primary key of the stored token record.
func GenerateRefreshToken(userID, tokenID string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
	})
	return token.SignedString(secretKey)
}

// ParseAccessToken verifies an access token and returns the caller's user id
// and role.
func ParseAccessToken(tokenString string, secretKey []byte) (string, string, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", "", common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" || claims.Role == "" {
		return "", "", common.ErrInvalidToken
	}

	return claims.Subject, claims.Role, nil
}

// ParseRefreshToken verifies a refresh token and returns (userID, tokenID).
func ParseRefreshToken(tokenString string, secretKey []byte) (string, string, error) {
	claims := &RefreshClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", "", common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" || claims.ID == "" {
		return "", "", common.ErrInvalidToken
	}

	return claims.Subject, claims.ID, nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token. Only hashes
// are persisted server-side.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
