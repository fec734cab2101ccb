// Package common contains shared constants and sentinel errors used across
// Resonance components. The sentinels form the error taxonomy shared by the
// server services, the HTTP layer and the client's sync engine.
package common

import "errors"

var (
	// ErrValidation marks malformed input. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrAuth marks a missing, invalid or expired credential. The client
	// reacts with a token refresh, not a task retry.
	ErrAuth = errors.New("unauthorized")

	// ErrAccessDenied marks a role or membership mismatch.
	ErrAccessDenied = errors.New("access denied")

	// ErrConflict marks a state-machine precondition violation
	// (entry locked, artifacts not uploaded, refresh token reused).
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks an entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrGone marks an entity that existed but has been deleted.
	ErrGone = errors.New("gone")

	// ErrStorageFailure marks a backing-store I/O error. Transient.
	ErrStorageFailure = errors.New("storage failure")

	// ErrInternal marks an unexpected failure.
	ErrInternal = errors.New("internal error")

	// ErrRefreshTokenRevoked is returned when a rotated refresh token is reused.
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")

	// ErrRefreshTokenExpired is returned for refresh tokens past their expiry.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrInvalidToken is returned for tokens that fail signature or claim checks.
	ErrInvalidToken = errors.New("invalid token")
)
