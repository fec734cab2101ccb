// Package services implements the offline-first operations behind the
// CLI: every mutation lands in the local replica and the durable queue
// first, and reaches the server on the next drain.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resonance-app/resonance/internal/client/api"
	"github.com/resonance-app/resonance/internal/client/models"
	"github.com/resonance-app/resonance/internal/client/store"
)

type JournalService struct {
	repos *store.Repositories
	api   *api.Client
}

func NewJournalService(repos *store.Repositories, apiClient *api.Client) *JournalService {
	return &JournalService{repos: repos, api: apiClient}
}

// CreateEntry writes the draft locally and queues its creation. The id is
// generated here so retries of the queued task stay idempotent.
func (s *JournalService) CreateEntry(ctx context.Context, courseID string, practiceDate time.Time,
	goalText string, durationSeconds *int, tags []string, notes *string) (*models.Entry, error) {

	entry := &models.Entry{
		ID:              "en_" + uuid.NewString(),
		CourseID:        courseID,
		PracticeDate:    practiceDate,
		GoalText:        goalText,
		DurationSeconds: durationSeconds,
		Tags:            tags,
		Notes:           notes,
		Status:          models.EntryStatusDraft,
		UpdatedAt:       time.Now().UTC(),
	}

	if err := s.repos.Entries.CreateOrUpdate(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.repos.Outbox.Enqueue(ctx, models.CreateEntryPayload{EntryID: entry.ID}); err != nil {
		return nil, err
	}
	return entry, nil
}

// AddArtifact records the local media file and queues the full upload
// handshake: create, byte transfer, confirm. The three tasks keep their
// relative order in the queue.
func (s *JournalService) AddArtifact(ctx context.Context, entryID, artifactType, localPath string,
	durationSeconds int) (*models.Artifact, error) {

	if artifactType != models.ArtifactTypeAudio && artifactType != models.ArtifactTypeVideo {
		return nil, fmt.Errorf("unsupported artifact type: %s", artifactType)
	}

	if _, err := s.repos.Entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	artifact := &models.Artifact{
		ID:              "ar_" + uuid.NewString(),
		EntryID:         entryID,
		Type:            artifactType,
		DurationSeconds: durationSeconds,
		UploadState:     models.UploadStatePending,
		LocalPath:       localPath,
	}

	if err := s.repos.Artifacts.Create(ctx, artifact); err != nil {
		return nil, err
	}

	payloads := []models.TaskPayload{
		models.CreateArtifactPayload{ArtifactID: artifact.ID},
		models.UploadArtifactPayload{ArtifactID: artifact.ID},
		models.ConfirmArtifactPayload{ArtifactID: artifact.ID},
	}
	for _, p := range payloads {
		if err := s.repos.Outbox.Enqueue(ctx, p); err != nil {
			return nil, err
		}
	}
	return artifact, nil
}

func (s *JournalService) SubmitEntry(ctx context.Context, entryID string) error {
	if _, err := s.repos.Entries.GetByID(ctx, entryID); err != nil {
		return err
	}
	return s.repos.Outbox.Enqueue(ctx, models.SubmitEntryPayload{EntryID: entryID})
}

// DeleteEntry tombstones the local row; the purge happens when the queued
// task confirms the server-side cascade.
func (s *JournalService) DeleteEntry(ctx context.Context, entryID string) error {
	if err := s.repos.Entries.MarkDeleted(ctx, entryID); err != nil {
		return err
	}
	return s.repos.Outbox.Enqueue(ctx, models.DeleteEntryPayload{EntryID: entryID})
}

// PostFeedback stores the feedback locally with a client-generated id and
// queues the post.
func (s *JournalService) PostFeedback(ctx context.Context, targetType, targetID, status,
	commentsText string, markers []*models.Marker) (*models.Feedback, error) {

	fb := &models.Feedback{
		ID:           "fb_" + uuid.NewString(),
		TargetType:   targetType,
		TargetID:     targetID,
		Status:       status,
		CommentsText: commentsText,
		CreatedAt:    time.Now().UTC(),
	}
	for _, m := range markers {
		m.ID = "mk_" + uuid.NewString()
		m.FeedbackID = fb.ID
	}
	fb.Markers = markers

	if err := s.repos.Feedback.CreateOrUpdate(ctx, fb); err != nil {
		return nil, err
	}
	if err := s.repos.Outbox.Enqueue(ctx, models.PostFeedbackPayload{FeedbackID: fb.ID}); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *JournalService) ListEntries(ctx context.Context, courseID string) ([]*models.Entry, error) {
	return s.repos.Entries.ListByCourse(ctx, courseID)
}

func (s *JournalService) ListArtifacts(ctx context.Context, entryID string) ([]*models.Artifact, error) {
	return s.repos.Artifacts.ListByEntry(ctx, entryID)
}

func (s *JournalService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.repos.Courses.List(ctx)
}

func (s *JournalService) PendingTasks(ctx context.Context) (int, error) {
	return s.repos.Outbox.Count(ctx)
}

// PullCourses refreshes the cached course list from the server.
func (s *JournalService) PullCourses(ctx context.Context) ([]*models.Course, error) {
	remote, err := s.api.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*models.Course, 0, len(remote))
	for _, c := range remote {
		list = append(list, &models.Course{ID: c.ID, Title: c.Title, RoleInCourse: c.RoleInCourse})
	}
	if err := s.repos.Courses.ReplaceAll(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// PullEntries mirrors the server's view of a course into the replica.
// Rows with unsynced local changes are left alone.
func (s *JournalService) PullEntries(ctx context.Context, courseID string) error {
	remote, err := s.api.ListEntries(ctx, courseID)
	if err != nil {
		return err
	}

	for _, re := range remote {
		local, err := s.repos.Entries.GetByID(ctx, re.ID)
		if err == nil && (!local.Synced || local.Deleted) {
			continue
		}

		if err := s.repos.Entries.CreateOrUpdate(ctx, &models.Entry{
			ID:              re.ID,
			CourseID:        re.CourseID,
			PracticeDate:    re.PracticeDate,
			GoalText:        re.GoalText,
			DurationSeconds: re.DurationSeconds,
			Tags:            re.Tags,
			Notes:           re.Notes,
			Status:          re.Status,
			UpdatedAt:       re.UpdatedAt,
			Synced:          true,
		}); err != nil {
			return err
		}
	}
	return nil
}

// PullFeedback mirrors the server's feedback for an entry.
func (s *JournalService) PullFeedback(ctx context.Context, entryID string) ([]*models.Feedback, error) {
	remote, err := s.api.ListFeedback(ctx, entryID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Feedback, 0, len(remote))
	for _, rf := range remote {
		markers := make([]*models.Marker, 0, len(rf.Markers))
		for _, m := range rf.Markers {
			markers = append(markers, &models.Marker{
				ID:          m.ID,
				FeedbackID:  rf.ID,
				TimeSeconds: m.TimeSeconds,
				Text:        m.Text,
			})
		}
		fb := &models.Feedback{
			ID:           rf.ID,
			TargetType:   rf.TargetType,
			TargetID:     rf.TargetID,
			TeacherID:    rf.TeacherID,
			TeacherName:  rf.TeacherName,
			Status:       rf.Status,
			CommentsText: rf.CommentsText,
			CreatedAt:    rf.CreatedAt,
			Synced:       true,
			Markers:      markers,
		}
		if err := s.repos.Feedback.CreateOrUpdate(ctx, fb); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	return result, nil
}

// ReviewQueue fetches the submitted entries awaiting review. Teacher-only
// server side; not cached locally.
func (s *JournalService) ReviewQueue(ctx context.Context, courseID string) ([]api.ReviewEntry, error) {
	return s.api.ReviewQueue(ctx, courseID)
}
