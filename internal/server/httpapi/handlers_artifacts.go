package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resonance-app/resonance/internal/server/models"
)

func (s *Server) handleCreateArtifact(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	entryID := chi.URLParam(r, "entryID")

	var req createArtifactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	artifact, err := s.artifacts.Create(r.Context(), user, entryID, &models.Artifact{
		ID:              req.ID,
		Type:            req.Type,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArtifactResponse(artifact))
}

func (s *Server) handlePresignArtifact(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	artifactID := chi.URLParam(r, "artifactID")

	result, err := s.artifacts.Presign(r.Context(), user, artifactID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presignResponse{
		UploadURL:        result.UploadURL,
		StorageKey:       result.StorageKey,
		ExpiresInSeconds: result.ExpiresInSeconds,
	})
}

func (s *Server) handleConfirmArtifact(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	artifactID := chi.URLParam(r, "artifactID")

	artifact, err := s.artifacts.Confirm(r.Context(), user, artifactID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArtifactResponse(artifact))
}
