package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())

	courses, err := s.courses.List(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, courseResponse{ID: c.ID, Title: c.Title, RoleInCourse: c.RoleInCourse})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	course, err := s.courses.Get(r.Context(), user, courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courseResponse{ID: course.ID, Title: course.Title})
}

func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	user := authUserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	queue, err := s.entries.ReviewQueue(r.Context(), user, courseID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]reviewEntryResponse, 0, len(queue))
	for _, item := range queue {
		artifacts := make([]artifactResponse, 0, len(item.Artifacts))
		for _, a := range item.Artifacts {
			artifacts = append(artifacts, toArtifactResponse(a))
		}
		out = append(out, reviewEntryResponse{
			entryResponse: toEntryResponse(&item.Entry),
			StudentName:   item.StudentName,
			Artifacts:     artifacts,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
