package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/resonance-app/resonance/internal/server/models"
)

func (s *Server) handlePostFeedback(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())

	var req postFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// The feedback id is client-generated so retried posts are detected as
	// duplicates; fall back to a server id for older clients.
	feedbackID := req.ID
	if feedbackID == "" {
		feedbackID = "fb_" + uuid.NewString()
	}

	markers := make([]*models.Marker, 0, len(req.Markers))
	for _, m := range req.Markers {
		markerID := m.ID
		if markerID == "" {
			markerID = "mk_" + uuid.NewString()
		}
		markers = append(markers, &models.Marker{
			ID:          markerID,
			TimeSeconds: m.TimeSeconds,
			Text:        m.Text,
		})
	}

	fb, err := s.feedback.Post(r.Context(), user, &models.Feedback{
		ID:           feedbackID,
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		Status:       req.Status,
		CommentsText: req.CommentsText,
		Markers:      markers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackResponse(fb))
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	entryID := chi.URLParam(r, "entryID")

	items, err := s.feedback.ListForEntry(r.Context(), user, entryID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]feedbackResponse, 0, len(items))
	for _, fb := range items {
		out = append(out, toFeedbackResponse(fb))
	}
	writeJSON(w, http.StatusOK, out)
}
