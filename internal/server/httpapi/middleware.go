package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/server/auth"
	"github.com/resonance-app/resonance/internal/server/services"
)

type ctxKey string

const authUserKey ctxKey = "authUser"

// bearerAuth verifies the Authorization header and stores the caller's
// identity in the request context.
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, common.ErrAuth)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		userID, role, err := auth.ParseAccessToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, common.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), authUserKey, services.AuthUser{ID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authUserFromContext(ctx context.Context) services.AuthUser {
	user, _ := ctx.Value(authUserKey).(services.AuthUser)
	return user
}
