package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/dbx"
	"github.com/resonance-app/resonance/internal/logging"
	"github.com/resonance-app/resonance/internal/server/models"
	"github.com/resonance-app/resonance/internal/server/repositories/repomanager"
	"github.com/resonance-app/resonance/internal/server/storage"
)

// EntryService implements the entry lifecycle: creation, patching under the
// submitted-lock rule, the draft->submitted transition, listings, and the
// cascade delete.
type EntryService struct {
	authz
	store  storage.ObjectStore
	logger logging.Logger
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, logger logging.Logger) *EntryService {
	return &EntryService{
		authz:  authz{db: db, repomanager: m},
		store:  store,
		logger: logger,
	}
}

// Create inserts a draft entry for a student member of the course, keyed by
// the client-supplied id. Retrying an already-applied create returns
// ErrConflict, which the client treats as done.
func (s *EntryService) Create(ctx context.Context, user AuthUser, entry *models.Entry) (*models.Entry, error) {
	role, err := s.courseRole(ctx, user.ID, entry.CourseID)
	if err != nil {
		return nil, err
	}
	if role != common.RoleStudent {
		return nil, fmt.Errorf("%w: only students can create entries", common.ErrAccessDenied)
	}

	entry.StudentID = user.ID
	entry.Status = models.EntryStatusDraft

	if err := s.repomanager.Entries(s.db).Create(ctx, entry); err != nil {
		return nil, err
	}
	return s.repomanager.Entries(s.db).GetByID(ctx, entry.ID)
}

// Patch applies a partial update. Once an entry is submitted, its goal,
// date, tags and duration are locked; touching them yields a conflict while
// submission-independent fields (notes) remain patchable.
func (s *EntryService) Patch(ctx context.Context, user AuthUser, entryID string, patch *models.EntryPatch) (*models.Entry, error) {
	entry, err := s.entryAccess(ctx, user, entryID)
	if err != nil {
		return nil, err
	}
	if entry.StudentID != user.ID {
		return nil, fmt.Errorf("%w: only the owning student can edit", common.ErrAccessDenied)
	}

	if entry.Status == models.EntryStatusSubmitted && patch.TouchesLockedFields() {
		return nil, fmt.Errorf("%w: submitted entries are locked", common.ErrConflict)
	}

	if patch.GoalText != nil {
		entry.GoalText = *patch.GoalText
	}
	if patch.PracticeDate != nil {
		entry.PracticeDate = *patch.PracticeDate
	}
	if patch.DurationSeconds != nil {
		entry.DurationSeconds = patch.DurationSeconds
	}
	if patch.Tags != nil {
		entry.Tags = patch.Tags
	}
	if patch.Notes != nil {
		entry.Notes = patch.Notes
	}

	if err := s.repomanager.Entries(s.db).Update(ctx, entry); err != nil {
		return nil, err
	}
	return s.repomanager.Entries(s.db).GetByID(ctx, entryID)
}

// Submit performs the draft->submitted transition. Preconditions: the caller
// owns the entry, the entry is not deleted, it has at least one artifact,
// and every artifact is uploaded. A second submit is a no-op, never a state
// regression.
func (s *EntryService) Submit(ctx context.Context, user AuthUser, entryID string) (*models.Entry, error) {
	entry, err := s.entryAccess(ctx, user, entryID)
	if err != nil {
		return nil, err
	}
	if entry.StudentID != user.ID {
		return nil, fmt.Errorf("%w: only the owning student can submit", common.ErrAccessDenied)
	}
	if entry.Status == models.EntryStatusSubmitted {
		return entry, nil
	}

	artifacts, err := s.repomanager.Artifacts(s.db).ListByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: entry has no artifacts", common.ErrConflict)
	}
	for _, a := range artifacts {
		if a.UploadState != models.UploadStateUploaded {
			return nil, fmt.Errorf("%w: artifact %s not uploaded", common.ErrConflict, a.ID)
		}
	}

	if err := s.repomanager.Entries(s.db).SetStatus(ctx, entryID, models.EntryStatusSubmitted); err != nil {
		return nil, err
	}
	return s.repomanager.Entries(s.db).GetByID(ctx, entryID)
}

// Delete removes an entry and everything under it. Backing-store objects are
// deleted first and are not rolled back if the transaction later fails; this
// avoids orphaned storage objects at the cost of a rare
// deleted-from-storage-but-still-in-DB state, which is surfaced as a fatal
// error rather than retried. The database rows then go in one transaction
// with a fixed order: markers -> feedback -> artifacts -> entry.
func (s *EntryService) Delete(ctx context.Context, user AuthUser, entryID string) error {
	entry, err := s.entryAccess(ctx, user, entryID)
	if err != nil {
		return err
	}
	if entry.StudentID != user.ID {
		return fmt.Errorf("%w: only the owning student can delete", common.ErrAccessDenied)
	}

	artifacts, err := s.repomanager.Artifacts(s.db).ListByEntry(ctx, entryID)
	if err != nil {
		return err
	}

	for _, a := range artifacts {
		if a.StorageKey == nil {
			continue
		}
		if err := s.store.Delete(ctx, *a.StorageKey); err != nil {
			s.logger.Error(ctx, "storage delete failed", "artifact", a.ID, "error", err.Error())
			return fmt.Errorf("%w: deleting artifact object", common.ErrStorageFailure)
		}
	}

	artifactIDs := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		artifactIDs = append(artifactIDs, a.ID)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fbRepo := s.repomanager.Feedback(tx)

		artifactFeedbackIDs, err := fbRepo.ListIDsByTargets(ctx, models.FeedbackTargetArtifact, artifactIDs)
		if err != nil {
			return err
		}
		entryFeedbackIDs, err := fbRepo.ListIDsByTargets(ctx, models.FeedbackTargetEntry, []string{entryID})
		if err != nil {
			return err
		}
		feedbackIDs := append(artifactFeedbackIDs, entryFeedbackIDs...)

		if err := fbRepo.DeleteMarkersByFeedbackIDs(ctx, feedbackIDs); err != nil {
			return err
		}
		if err := fbRepo.DeleteByIDs(ctx, feedbackIDs); err != nil {
			return err
		}
		if err := s.repomanager.Artifacts(tx).DeleteByEntry(ctx, entryID); err != nil {
			return err
		}
		return s.repomanager.Entries(tx).Delete(ctx, entryID)
	})
}

// ListByCourse lists the non-deleted entries a caller may see: students get
// only their own entries, teachers get the whole course.
func (s *EntryService) ListByCourse(ctx context.Context, user AuthUser, courseID string) ([]*models.Entry, error) {
	role, err := s.courseRole(ctx, user.ID, courseID)
	if err != nil {
		return nil, err
	}

	studentFilter := ""
	if role == common.RoleStudent {
		studentFilter = user.ID
	}
	return s.repomanager.Entries(s.db).ListByCourse(ctx, courseID, studentFilter)
}

// ReviewQueue returns the submitted, non-deleted entries of a course.
// Teachers only.
func (s *EntryService) ReviewQueue(ctx context.Context, user AuthUser, courseID string) ([]*models.EntryWithArtifacts, error) {
	role, err := s.courseRole(ctx, user.ID, courseID)
	if err != nil {
		return nil, err
	}
	if role != common.RoleTeacher {
		return nil, fmt.Errorf("%w: only teachers can read the review queue", common.ErrAccessDenied)
	}
	return s.repomanager.Entries(s.db).ListSubmitted(ctx, courseID)
}

// Get returns one entry under the usual access rules.
func (s *EntryService) Get(ctx context.Context, user AuthUser, entryID string) (*models.Entry, error) {
	return s.entryAccess(ctx, user, entryID)
}
