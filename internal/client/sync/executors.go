package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/resonance-app/resonance/internal/client/api"
	"github.com/resonance-app/resonance/internal/client/models"
	"github.com/resonance-app/resonance/internal/client/repositories/artifacts"
	"github.com/resonance-app/resonance/internal/client/repositories/entries"
	"github.com/resonance-app/resonance/internal/client/repositories/feedback"
	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/logging"
	"github.com/resonance-app/resonance/internal/netx"
)

// Executor applies one task against the Remote API and mirrors the result
// into the local replica. Executors are idempotent: re-running a task that
// already succeeded remotely resolves to success, not a duplicate.
type Executor struct {
	api       *api.Client
	entries   entries.Repository
	artifacts artifacts.Repository
	feedback  feedback.Repository
	logger    logging.Logger

	uploadClient *http.Client
}

func NewExecutor(apiClient *api.Client, e entries.Repository, a artifacts.Repository,
	fb feedback.Repository, logger logging.Logger) *Executor {
	return &Executor{
		api:          apiClient,
		entries:      e,
		artifacts:    a,
		feedback:     fb,
		logger:       logger,
		uploadClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (x *Executor) Execute(ctx context.Context, task *models.SyncTask) error {
	switch p := task.Payload.(type) {
	case models.CreateEntryPayload:
		return x.createEntry(ctx, p)
	case models.CreateArtifactPayload:
		return x.createArtifact(ctx, p)
	case models.UploadArtifactPayload:
		return x.uploadArtifact(ctx, p)
	case models.ConfirmArtifactPayload:
		return x.confirmArtifact(ctx, p)
	case models.SubmitEntryPayload:
		return x.submitEntry(ctx, p)
	case models.DeleteEntryPayload:
		return x.deleteEntry(ctx, p)
	case models.PostFeedbackPayload:
		return x.postFeedback(ctx, p)
	default:
		return fmt.Errorf("no executor for task type %s", task.Type)
	}
}

func (x *Executor) createEntry(ctx context.Context, p models.CreateEntryPayload) error {
	e, err := x.entries.GetByID(ctx, p.EntryID)
	if errors.Is(err, common.ErrNotFound) {
		// Row vanished locally; nothing left to create.
		return nil
	}
	if err != nil {
		return err
	}

	_, err = x.api.CreateEntry(ctx, e.CourseID, &api.CreateEntryRequest{
		ID:              e.ID,
		PracticeDate:    e.PracticeDate,
		GoalText:        e.GoalText,
		DurationSeconds: e.DurationSeconds,
		Tags:            e.Tags,
		Notes:           e.Notes,
	})
	if err != nil && !errors.Is(err, common.ErrConflict) {
		return err
	}
	// A conflict means an earlier attempt already landed.
	return x.entries.MarkSynced(ctx, e.ID)
}

func (x *Executor) createArtifact(ctx context.Context, p models.CreateArtifactPayload) error {
	a, err := x.artifacts.GetByID(ctx, p.ArtifactID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = x.api.CreateArtifact(ctx, a.EntryID, &api.CreateArtifactRequest{
		ID:              a.ID,
		Type:            a.Type,
		DurationSeconds: a.DurationSeconds,
	})
	if err != nil && !errors.Is(err, common.ErrConflict) {
		return err
	}
	return x.artifacts.MarkSynced(ctx, a.ID)
}

// uploadArtifact re-presigns on every attempt; the server hands back the
// same storage key, so a retried upload overwrites its own partial object.
func (x *Executor) uploadArtifact(ctx context.Context, p models.UploadArtifactPayload) error {
	a, err := x.artifacts.GetByID(ctx, p.ArtifactID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	presign, err := x.api.PresignArtifact(ctx, a.ID)
	if err != nil {
		return err
	}

	if err := netx.UploadFileToPresignedURL(ctx, x.uploadClient, presign.UploadURL, a.LocalPath); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	return x.artifacts.SetRemote(ctx, a.ID, models.UploadStateUploading, &presign.StorageKey, nil)
}

func (x *Executor) confirmArtifact(ctx context.Context, p models.ConfirmArtifactPayload) error {
	a, err := x.artifacts.GetByID(ctx, p.ArtifactID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	confirmed, err := x.api.ConfirmArtifact(ctx, a.ID)
	if err != nil {
		return err
	}
	return x.artifacts.SetRemote(ctx, a.ID, confirmed.UploadState, confirmed.StorageKey, confirmed.RemoteURL)
}

func (x *Executor) submitEntry(ctx context.Context, p models.SubmitEntryPayload) error {
	submitted, err := x.api.SubmitEntry(ctx, p.EntryID)
	if err != nil {
		return err
	}
	return x.entries.SetStatus(ctx, p.EntryID, submitted.Status)
}

// deleteEntry treats a remote 404/410 as already-deleted: the goal is the
// entry being gone, not this particular request succeeding.
func (x *Executor) deleteEntry(ctx context.Context, p models.DeleteEntryPayload) error {
	err := x.api.DeleteEntry(ctx, p.EntryID)
	if err != nil && !errors.Is(err, common.ErrNotFound) && !errors.Is(err, common.ErrGone) {
		return err
	}

	if err := x.feedback.DeleteByTarget(ctx, models.FeedbackTargetEntry, p.EntryID); err != nil {
		return err
	}
	if err := x.artifacts.DeleteByEntry(ctx, p.EntryID); err != nil {
		return err
	}
	return x.entries.Purge(ctx, p.EntryID)
}

// postFeedback relies on the client-generated feedback id: a retried post
// the server already applied comes back as a conflict, which counts as
// success here.
func (x *Executor) postFeedback(ctx context.Context, p models.PostFeedbackPayload) error {
	fb, err := x.feedback.GetByID(ctx, p.FeedbackID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	markers := make([]api.Marker, 0, len(fb.Markers))
	for _, m := range fb.Markers {
		markers = append(markers, api.Marker{ID: m.ID, TimeSeconds: m.TimeSeconds, Text: m.Text})
	}

	_, err = x.api.PostFeedback(ctx, &api.PostFeedbackRequest{
		ID:           fb.ID,
		TargetType:   fb.TargetType,
		TargetID:     fb.TargetID,
		Status:       fb.Status,
		CommentsText: fb.CommentsText,
		Markers:      markers,
	})
	if err != nil && !errors.Is(err, common.ErrConflict) {
		return err
	}
	return x.feedback.MarkSynced(ctx, fb.ID)
}
