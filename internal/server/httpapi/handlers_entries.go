package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resonance-app/resonance/internal/server/models"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	entries, err := s.entries.ListByCourse(r.Context(), user, courseID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	var req createEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := s.entries.Create(r.Context(), user, &models.Entry{
		ID:              req.ID,
		CourseID:        courseID,
		PracticeDate:    req.PracticeDate,
		GoalText:        req.GoalText,
		DurationSeconds: req.DurationSeconds,
		Tags:            req.Tags,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	entryID := chi.URLParam(r, "entryID")

	entry, err := s.entries.Get(r.Context(), user, entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handlePatchEntry(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	entryID := chi.URLParam(r, "entryID")

	var req patchEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := s.entries.Patch(r.Context(), user, entryID, &models.EntryPatch{
		GoalText:        req.GoalText,
		PracticeDate:    req.PracticeDate,
		DurationSeconds: req.DurationSeconds,
		Tags:            req.Tags,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	entryID := chi.URLParam(r, "entryID")

	if err := s.entries.Delete(r.Context(), user, entryID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSubmitEntry(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	entryID := chi.URLParam(r, "entryID")

	entry, err := s.entries.Submit(r.Context(), user, entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}
