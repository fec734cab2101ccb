package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/logging"
	"github.com/resonance-app/resonance/internal/server/models"
)

func newDiscardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newEntryService wires an EntryService over the in-memory fakes. The sqlmock
// database only sees transaction begin/commit calls; all row access goes
// through the fake repositories.
func newEntryService(t *testing.T) (*EntryService, *fakeRepoManager, *fakeStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := newFakeRepoManager()
	store := &fakeStore{}
	return NewEntryService(db, m, store, newDiscardLogger()), m, store, mock
}

func seedEntry(m *fakeRepoManager, id, courseID, studentID, status string) *models.Entry {
	e := &models.Entry{
		ID: id, CourseID: courseID, StudentID: studentID,
		PracticeDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		GoalText:     "even sixteenths at 96bpm",
		Tags:         []string{},
		Status:       status,
	}
	m.entries.rows[id] = e
	return e
}

var (
	student = AuthUser{ID: "u1", Role: common.RoleStudent}
	teacher = AuthUser{ID: "t1", Role: common.RoleTeacher}
)

func TestEntryCreate_StudentOwnsTheDraft(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)

	got, err := svc.Create(context.Background(), student, &models.Entry{
		ID: "en_1", CourseID: "c1",
		// Client-supplied ownership and status must be overwritten.
		StudentID: "someone-else", Status: models.EntryStatusSubmitted,
		PracticeDate: time.Now(), GoalText: "voicing",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.StudentID)
	assert.Equal(t, models.EntryStatusDraft, got.Status)
}

func TestEntryCreate_TeacherDenied(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("t1", "c1", common.RoleTeacher)

	_, err := svc.Create(context.Background(), teacher, &models.Entry{ID: "en_1", CourseID: "c1"})
	require.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestEntryCreate_NonMemberDenied(t *testing.T) {
	svc, _, _, _ := newEntryService(t)

	_, err := svc.Create(context.Background(), student, &models.Entry{ID: "en_1", CourseID: "c1"})
	require.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestEntryPatch_SubmittedLocksCoreFields(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)

	goal := "new goal"
	_, err := svc.Patch(context.Background(), student, "en_1", &models.EntryPatch{GoalText: &goal})
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestEntryPatch_NotesStayPatchableAfterSubmit(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)

	notes := "teacher asked for slower tempo next time"
	got, err := svc.Patch(context.Background(), student, "en_1", &models.EntryPatch{Notes: &notes})
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)
}

func TestEntryPatch_OnlyOwnerCanEdit(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	m.addMembership("t1", "c1", common.RoleTeacher)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)

	goal := "new goal"
	_, err := svc.Patch(context.Background(), teacher, "en_1", &models.EntryPatch{GoalText: &goal})
	require.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestEntrySubmit_NoArtifactsIsConflict(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)

	_, err := svc.Submit(context.Background(), student, "en_1")
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestEntrySubmit_UnuploadedArtifactIsConflict(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)
	m.artifacts.byEntry["en_1"] = []*models.Artifact{
		{ID: "ar_1", EntryID: "en_1", UploadState: models.UploadStateUploaded},
		{ID: "ar_2", EntryID: "en_1", UploadState: models.UploadStatePending},
	}

	_, err := svc.Submit(context.Background(), student, "en_1")
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Contains(t, err.Error(), "ar_2")
}

func TestEntrySubmit_AllUploadedTransitions(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)
	m.artifacts.byEntry["en_1"] = []*models.Artifact{
		{ID: "ar_1", EntryID: "en_1", UploadState: models.UploadStateUploaded},
	}

	got, err := svc.Submit(context.Background(), student, "en_1")
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusSubmitted, got.Status)
}

func TestEntrySubmit_SecondSubmitIsNoOp(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)
	m.artifacts.byEntry["en_1"] = []*models.Artifact{
		{ID: "ar_1", EntryID: "en_1", UploadState: models.UploadStateUploaded},
	}

	_, err := svc.Submit(context.Background(), student, "en_1")
	require.NoError(t, err)

	got, err := svc.Submit(context.Background(), student, "en_1")
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusSubmitted, got.Status)
	assert.Equal(t, 1, m.entries.statusCalls)
}

func TestEntryGet_DeletedIsGone(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	e := seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)
	at := time.Now()
	e.DeletedAt = &at

	_, err := svc.Get(context.Background(), student, "en_1")
	require.ErrorIs(t, err, common.ErrGone)
}

func TestEntryGet_UnknownIsNotFound(t *testing.T) {
	svc, _, _, _ := newEntryService(t)

	_, err := svc.Get(context.Background(), student, "en_missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestEntryDelete_StorageFailureLeavesDatabaseUntouched(t *testing.T) {
	svc, m, store, mock := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)
	key := "media/en_1/ar_1"
	m.artifacts.byEntry["en_1"] = []*models.Artifact{
		{ID: "ar_1", EntryID: "en_1", UploadState: models.UploadStateUploaded, StorageKey: &key},
	}
	store.deleteErr = common.ErrStorageFailure

	err := svc.Delete(context.Background(), student, "en_1")
	require.ErrorIs(t, err, common.ErrStorageFailure)

	// The transaction must never have started and no rows may be touched.
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, m.ops)
	assert.Contains(t, m.entries.rows, "en_1")
}

func TestEntryDelete_CascadeOrder(t *testing.T) {
	svc, m, store, mock := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)

	key := "media/en_1/ar_1"
	m.artifacts.byEntry["en_1"] = []*models.Artifact{
		{ID: "ar_1", EntryID: "en_1", UploadState: models.UploadStateUploaded, StorageKey: &key},
		{ID: "ar_2", EntryID: "en_1", UploadState: models.UploadStatePending},
	}
	m.feedback.addTarget(models.FeedbackTargetArtifact, "ar_1", "fb_a")
	m.feedback.addTarget(models.FeedbackTargetEntry, "en_1", "fb_e")

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(context.Background(), student, "en_1"))

	assert.Equal(t, []string{key}, store.deleted)
	assert.Equal(t, []string{
		"delete markers [fb_a fb_e]",
		"delete feedback [fb_a fb_e]",
		"delete artifacts en_1",
		"delete entry en_1",
	}, m.ops)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryDelete_OnlyOwnerCanDelete(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	m.addMembership("t1", "c1", common.RoleTeacher)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)

	err := svc.Delete(context.Background(), teacher, "en_1")
	require.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestEntryList_StudentSeesOnlyOwnEntries(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)
	seedEntry(m, "en_2", "c1", "u2", models.EntryStatusDraft)

	got, err := svc.ListByCourse(context.Background(), student, "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "en_1", got[0].ID)
	assert.Equal(t, "u1", m.entries.lastStudentFilter)
}

func TestEntryList_TeacherSeesWholeCourse(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("t1", "c1", common.RoleTeacher)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusDraft)
	seedEntry(m, "en_2", "c1", "u2", models.EntryStatusDraft)

	got, err := svc.ListByCourse(context.Background(), teacher, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Empty(t, m.entries.lastStudentFilter)
}

func TestReviewQueue_StudentDenied(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("u1", "c1", common.RoleStudent)

	_, err := svc.ReviewQueue(context.Background(), student, "c1")
	require.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestReviewQueue_TeacherGetsSubmittedOnly(t *testing.T) {
	svc, m, _, _ := newEntryService(t)
	m.addMembership("t1", "c1", common.RoleTeacher)
	seedEntry(m, "en_1", "c1", "u1", models.EntryStatusSubmitted)
	seedEntry(m, "en_2", "c1", "u1", models.EntryStatusDraft)

	got, err := svc.ReviewQueue(context.Background(), teacher, "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "en_1", got[0].ID)
}
