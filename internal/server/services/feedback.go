package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/dbx"
	"github.com/resonance-app/resonance/internal/server/models"
	"github.com/resonance-app/resonance/internal/server/repositories/repomanager"
)

// FeedbackService posts teacher feedback and lists it per entry. Feedback is
// immutable once created; the feedback id is client-generated so a retried
// post is recognized as already applied (duplicate id -> ErrConflict).
type FeedbackService struct {
	authz
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager) *FeedbackService {
	return &FeedbackService{authz: authz{db: db, repomanager: m}}
}

// Post creates feedback with its markers in one transaction. The target must
// exist and the caller must be a teacher member of the target's course.
func (s *FeedbackService) Post(ctx context.Context, user AuthUser, fb *models.Feedback) (*models.Feedback, error) {
	var courseID string
	switch fb.TargetType {
	case models.FeedbackTargetEntry:
		entry, err := s.repomanager.Entries(s.db).GetByID(ctx, fb.TargetID)
		if err != nil {
			return nil, err
		}
		if entry.DeletedAt != nil {
			return nil, common.ErrGone
		}
		courseID = entry.CourseID
	case models.FeedbackTargetArtifact:
		artifact, err := s.repomanager.Artifacts(s.db).GetByID(ctx, fb.TargetID)
		if err != nil {
			return nil, err
		}
		entry, err := s.repomanager.Entries(s.db).GetByID(ctx, artifact.EntryID)
		if err != nil {
			return nil, err
		}
		if entry.DeletedAt != nil {
			return nil, common.ErrGone
		}
		courseID = entry.CourseID
	default:
		return nil, fmt.Errorf("%w: invalid target type %q", common.ErrValidation, fb.TargetType)
	}

	role, err := s.courseRole(ctx, user.ID, courseID)
	if err != nil {
		return nil, err
	}
	if role != common.RoleTeacher {
		return nil, fmt.Errorf("%w: only teachers can leave feedback", common.ErrAccessDenied)
	}

	fb.TeacherID = user.ID

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Feedback(tx).Create(ctx, fb)
	}); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Feedback(s.db).ListByTarget(ctx, fb.TargetType, fb.TargetID)
	if err != nil {
		return nil, err
	}
	for _, item := range created {
		if item.ID == fb.ID {
			return item, nil
		}
	}
	return nil, common.ErrInternal
}

// ListForEntry returns all feedback targeting an entry the caller may access.
func (s *FeedbackService) ListForEntry(ctx context.Context, user AuthUser, entryID string) ([]*models.Feedback, error) {
	if _, err := s.entryAccess(ctx, user, entryID); err != nil {
		return nil, err
	}
	return s.repomanager.Feedback(s.db).ListByTarget(ctx, models.FeedbackTargetEntry, entryID)
}
