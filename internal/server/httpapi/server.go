package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/logging"
	"github.com/resonance-app/resonance/internal/server/models"
	"github.com/resonance-app/resonance/internal/server/services"
)

// The service interfaces consumed by the HTTP layer. The concrete
// implementations live in internal/server/services.
type AuthAPI interface {
	IssueDevCode(ctx context.Context, role string) (string, error)
	ExchangeCode(ctx context.Context, code string) (*services.TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type CourseAPI interface {
	List(ctx context.Context, user services.AuthUser) ([]*models.CourseWithRole, error)
	Get(ctx context.Context, user services.AuthUser, courseID string) (*models.Course, error)
}

type EntryAPI interface {
	Create(ctx context.Context, user services.AuthUser, entry *models.Entry) (*models.Entry, error)
	Get(ctx context.Context, user services.AuthUser, entryID string) (*models.Entry, error)
	Patch(ctx context.Context, user services.AuthUser, entryID string, patch *models.EntryPatch) (*models.Entry, error)
	Submit(ctx context.Context, user services.AuthUser, entryID string) (*models.Entry, error)
	Delete(ctx context.Context, user services.AuthUser, entryID string) error
	ListByCourse(ctx context.Context, user services.AuthUser, courseID string) ([]*models.Entry, error)
	ReviewQueue(ctx context.Context, user services.AuthUser, courseID string) ([]*models.EntryWithArtifacts, error)
}

type ArtifactAPI interface {
	Create(ctx context.Context, user services.AuthUser, entryID string, artifact *models.Artifact) (*models.Artifact, error)
	Presign(ctx context.Context, user services.AuthUser, artifactID string) (*services.PresignResult, error)
	Confirm(ctx context.Context, user services.AuthUser, artifactID string) (*models.Artifact, error)
}

type FeedbackAPI interface {
	Post(ctx context.Context, user services.AuthUser, fb *models.Feedback) (*models.Feedback, error)
	ListForEntry(ctx context.Context, user services.AuthUser, entryID string) ([]*models.Feedback, error)
}

// Server is the HTTP front of the Remote API.
type Server struct {
	addr      string
	jwtSecret []byte
	logger    logging.Logger

	auth      AuthAPI
	courses   CourseAPI
	entries   EntryAPI
	artifacts ArtifactAPI
	feedback  FeedbackAPI

	router chi.Router
}

func NewServer(addr string, jwtSecret []byte, logger logging.Logger,
	auth AuthAPI, courses CourseAPI, entries EntryAPI, artifacts ArtifactAPI, feedback FeedbackAPI) *Server {

	s := &Server{
		addr:      addr,
		jwtSecret: jwtSecret,
		logger:    logger,
		auth:      auth,
		courses:   courses,
		entries:   entries,
		artifacts: artifacts,
		feedback:  feedback,
	}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, fmt.Errorf("%w: route not found", common.ErrNotFound))
	})

	r.Get("/health", s.handleHealth)
	r.Post("/dev/issue", s.handleDevIssue)
	r.Post("/auth/session", s.handleSession)
	r.Post("/auth/refresh", s.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)

		r.Get("/auth/me", s.handleMe)

		r.Get("/courses", s.handleListCourses)
		r.Get("/courses/{courseID}", s.handleGetCourse)
		r.Get("/courses/{courseID}/entries", s.handleListEntries)
		r.Post("/courses/{courseID}/entries", s.handleCreateEntry)
		r.Get("/courses/{courseID}/review-queue", s.handleReviewQueue)

		r.Get("/entries/{entryID}", s.handleGetEntry)
		r.Patch("/entries/{entryID}", s.handlePatchEntry)
		r.Delete("/entries/{entryID}", s.handleDeleteEntry)
		r.Post("/entries/{entryID}/submit", s.handleSubmitEntry)
		r.Post("/entries/{entryID}/artifacts", s.handleCreateArtifact)
		r.Get("/entries/{entryID}/feedback", s.handleListFeedback)

		r.Post("/artifacts/{artifactID}/presign", s.handlePresignArtifact)
		r.Post("/artifacts/{artifactID}/confirm", s.handleConfirmArtifact)

		r.Post("/feedback", s.handlePostFeedback)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "HTTP server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// decodeJSON unmarshals the body into v and runs struct validation.
// Failures surface as ErrValidation.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", common.ErrValidation)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
