package models

import "time"

// RefreshToken stores only the SHA-256 hash of the issued token. RevokedAt
// is set when the token is rotated; a revoked token must never be accepted
// again.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
