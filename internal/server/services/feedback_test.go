package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/server/models"
)

func newFeedbackService(t *testing.T) (*FeedbackService, *fakeRepoManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := newFakeRepoManager()
	return NewFeedbackService(db, m), m, mock
}

func TestFeedbackPost_StudentDenied(t *testing.T) {
	svc, m, _ := newFeedbackService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)

	_, err := svc.Post(context.Background(), student, &models.Feedback{
		ID: "fb_1", TargetType: models.FeedbackTargetEntry, TargetID: "en_1",
		Status: models.FeedbackStatusOK,
	})
	require.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestFeedbackPost_TeacherOnEntry(t *testing.T) {
	svc, m, mock := newFeedbackService(t)
	m.addMembership("t1", "c1", common.RoleTeacher)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)

	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := svc.Post(context.Background(), teacher, &models.Feedback{
		ID: "fb_1", TargetType: models.FeedbackTargetEntry, TargetID: "en_1",
		Status: models.FeedbackStatusNeedsRevision, CommentsText: "watch the left-hand voicing",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", got.TeacherID)
	assert.Equal(t, "fb_1", got.ID)
}

func TestFeedbackPost_RetriedPostIsConflict(t *testing.T) {
	svc, m, mock := newFeedbackService(t)
	m.addMembership("t1", "c1", common.RoleTeacher)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	fb := func() *models.Feedback {
		return &models.Feedback{
			ID: "fb_1", TargetType: models.FeedbackTargetEntry, TargetID: "en_1",
			Status: models.FeedbackStatusOK,
		}
	}

	_, err := svc.Post(context.Background(), teacher, fb())
	require.NoError(t, err)

	_, err = svc.Post(context.Background(), teacher, fb())
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestFeedbackPost_DeletedEntryTargetIsGone(t *testing.T) {
	svc, m, _ := newFeedbackService(t)
	m.addMembership("t1", "c1", common.RoleTeacher)
	e := seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)
	at := time.Now()
	e.DeletedAt = &at

	_, err := svc.Post(context.Background(), teacher, &models.Feedback{
		ID: "fb_1", TargetType: models.FeedbackTargetEntry, TargetID: "en_1",
		Status: models.FeedbackStatusOK,
	})
	require.ErrorIs(t, err, common.ErrGone)
}

func TestFeedbackPost_ArtifactTargetResolvesCourse(t *testing.T) {
	svc, m, mock := newFeedbackService(t)
	m.addMembership("t1", "c1", common.RoleTeacher)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)
	m.artifacts.byEntry["en_1"] = []*models.Artifact{
		{ID: "ar_1", EntryID: "en_1", UploadState: models.UploadStateUploaded},
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := svc.Post(context.Background(), teacher, &models.Feedback{
		ID: "fb_1", TargetType: models.FeedbackTargetArtifact, TargetID: "ar_1",
		Status: models.FeedbackStatusNextGoal,
		Markers: []*models.Marker{
			{ID: "mk_1", FeedbackID: "fb_1", TimeSeconds: 12.5, Text: "rushing here"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackTargetArtifact, got.TargetType)
}

func TestFeedbackPost_InvalidTargetTypeRejected(t *testing.T) {
	svc, _, _ := newFeedbackService(t)

	_, err := svc.Post(context.Background(), teacher, &models.Feedback{
		ID: "fb_1", TargetType: "course", TargetID: "c1", Status: models.FeedbackStatusOK,
	})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestFeedbackList_RequiresEntryAccess(t *testing.T) {
	svc, m, _ := newFeedbackService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u2", models.EntryStatusSubmitted)

	_, err := svc.ListForEntry(context.Background(), student, "en_1")
	require.ErrorIs(t, err, common.ErrAccessDenied)
}
