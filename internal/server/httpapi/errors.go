// Package httpapi exposes the Resonance Remote API over HTTP/JSON with a
// uniform error envelope: {"error": {"code", "message", "details"}}.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/resonance-app/resonance/internal/common"
)

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// statusAndCode maps the sentinel taxonomy onto HTTP status codes and stable
// machine-readable codes.
func statusAndCode(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, common.ErrRefreshTokenRevoked):
		return http.StatusUnauthorized, "REFRESH_REVOKED"
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "REFRESH_EXPIRED"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrAuth):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, common.ErrAccessDenied):
		return http.StatusForbidden, "ACCESS_DENIED"
	case errors.Is(err, common.ErrGone):
		return http.StatusGone, "GONE"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, common.ErrStorageFailure):
		return http.StatusBadGateway, "STORAGE_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// writeError renders err as the uniform envelope. Internal errors are not
// echoed to the client verbatim.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusAndCode(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "unexpected error"
	}

	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Details: map[string]any{},
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
