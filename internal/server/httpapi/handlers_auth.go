package httpapi

import (
	"net/http"

	"github.com/resonance-app/resonance/internal/common"
)

func (s *Server) handleDevIssue(w http.ResponseWriter, r *http.Request) {
	var req devIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Role == "" {
		req.Role = common.RoleStudent
	}

	code, err := s.auth.IssueDevCode(r.Context(), req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, user, err := s.auth.ExchangeCode(r.Context(), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User: userResponse{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			GlobalRole:  user.GlobalRole,
		},
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())

	record, err := s.auth.Me(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{
		ID:          record.ID,
		DisplayName: record.DisplayName,
		GlobalRole:  record.GlobalRole,
	})
}
