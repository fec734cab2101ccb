package services

// In-memory fakes for the repository manager and the object store. The
// per-repository fakes append to a shared operation log so tests can assert
// the order of destructive operations.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/dbx"
	"github.com/resonance-app/resonance/internal/server/models"
	"github.com/resonance-app/resonance/internal/server/repositories/artifacts"
	"github.com/resonance-app/resonance/internal/server/repositories/courses"
	"github.com/resonance-app/resonance/internal/server/repositories/entries"
	"github.com/resonance-app/resonance/internal/server/repositories/feedback"
	"github.com/resonance-app/resonance/internal/server/repositories/refreshtokens"
	"github.com/resonance-app/resonance/internal/server/repositories/users"
)

type fakeRepoManager struct {
	users         *fakeUsers
	courses       *fakeCourses
	entries       *fakeEntries
	artifacts     *fakeArtifacts
	feedback      *fakeFeedback
	refreshTokens *fakeRefreshTokens

	ops []string
}

func newFakeRepoManager() *fakeRepoManager {
	m := &fakeRepoManager{}
	m.users = &fakeUsers{rows: map[string]*models.User{}}
	m.courses = &fakeCourses{rows: map[string]*models.Course{}, roles: map[string]string{}}
	m.entries = &fakeEntries{m: m, rows: map[string]*models.Entry{}}
	m.artifacts = &fakeArtifacts{m: m, byEntry: map[string][]*models.Artifact{}}
	m.feedback = &fakeFeedback{m: m, idsByTarget: map[string][]string{}}
	m.refreshTokens = &fakeRefreshTokens{rows: map[string]*models.RefreshToken{}}
	return m
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) Courses(dbx.DBTX) courses.Repository             { return m.courses }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository             { return m.entries }
func (m *fakeRepoManager) Artifacts(dbx.DBTX) artifacts.Repository         { return m.artifacts }
func (m *fakeRepoManager) Feedback(dbx.DBTX) feedback.Repository           { return m.feedback }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refreshTokens }

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *fakeRepoManager) addMembership(userID, courseID, role string) {
	m.courses.roles[userID+"|"+courseID] = role
}

type fakeUsers struct {
	rows map[string]*models.User
}

func (f *fakeUsers) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	f.rows[user.ID] = user
	return user, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeCourses struct {
	rows  map[string]*models.Course
	roles map[string]string
}

func (f *fakeCourses) Upsert(ctx context.Context, course *models.Course) error {
	f.rows[course.ID] = course
	return nil
}

func (f *fakeCourses) GetByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (f *fakeCourses) ListForUser(ctx context.Context, userID string) ([]*models.CourseWithRole, error) {
	var result []*models.CourseWithRole
	for key, role := range f.roles {
		if len(key) > len(userID) && key[:len(userID)+1] == userID+"|" {
			courseID := key[len(userID)+1:]
			title := ""
			if c, ok := f.rows[courseID]; ok {
				title = c.Title
			}
			result = append(result, &models.CourseWithRole{ID: courseID, Title: title, RoleInCourse: role})
		}
	}
	return result, nil
}

func (f *fakeCourses) UpsertMembership(ctx context.Context, m *models.Membership) error {
	f.roles[m.UserID+"|"+m.CourseID] = m.RoleInCourse
	return nil
}

func (f *fakeCourses) GetRole(ctx context.Context, userID, courseID string) (string, error) {
	role, ok := f.roles[userID+"|"+courseID]
	if !ok {
		return "", common.ErrAccessDenied
	}
	return role, nil
}

type fakeEntries struct {
	m    *fakeRepoManager
	rows map[string]*models.Entry

	lastStudentFilter string
	statusCalls       int
}

func (f *fakeEntries) Create(ctx context.Context, entry *models.Entry) error {
	if _, ok := f.rows[entry.ID]; ok {
		return common.ErrConflict
	}
	f.rows[entry.ID] = entry
	return nil
}

func (f *fakeEntries) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return e, nil
}

func (f *fakeEntries) Update(ctx context.Context, entry *models.Entry) error {
	if _, ok := f.rows[entry.ID]; !ok {
		return common.ErrNotFound
	}
	f.rows[entry.ID] = entry
	return nil
}

func (f *fakeEntries) SetStatus(ctx context.Context, id, status string) error {
	e, ok := f.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	f.statusCalls++
	e.Status = status
	return nil
}

func (f *fakeEntries) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	e, ok := f.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	e.DeletedAt = &at
	return nil
}

func (f *fakeEntries) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.rows, id)
	f.m.ops = append(f.m.ops, "delete entry "+id)
	return nil
}

func (f *fakeEntries) ListByCourse(ctx context.Context, courseID string, studentID string) ([]*models.Entry, error) {
	f.lastStudentFilter = studentID
	var result []*models.Entry
	for _, e := range f.rows {
		if e.CourseID != courseID || e.DeletedAt != nil {
			continue
		}
		if studentID != "" && e.StudentID != studentID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (f *fakeEntries) ListSubmitted(ctx context.Context, courseID string) ([]*models.EntryWithArtifacts, error) {
	var result []*models.EntryWithArtifacts
	for _, e := range f.rows {
		if e.CourseID != courseID || e.DeletedAt != nil || e.Status != models.EntryStatusSubmitted {
			continue
		}
		result = append(result, &models.EntryWithArtifacts{Entry: *e})
	}
	return result, nil
}

type fakeArtifacts struct {
	m       *fakeRepoManager
	byEntry map[string][]*models.Artifact
}

func (f *fakeArtifacts) Create(ctx context.Context, artifact *models.Artifact) error {
	for _, a := range f.byEntry[artifact.EntryID] {
		if a.ID == artifact.ID {
			return common.ErrConflict
		}
	}
	f.byEntry[artifact.EntryID] = append(f.byEntry[artifact.EntryID], artifact)
	return nil
}

func (f *fakeArtifacts) GetByID(ctx context.Context, id string) (*models.Artifact, error) {
	for _, list := range f.byEntry {
		for _, a := range list {
			if a.ID == id {
				return a, nil
			}
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeArtifacts) ListByEntry(ctx context.Context, entryID string) ([]*models.Artifact, error) {
	return f.byEntry[entryID], nil
}

func (f *fakeArtifacts) SetPresigned(ctx context.Context, id, storageKey string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.StorageKey = &storageKey
	a.UploadState = models.UploadStateUploading
	return nil
}

func (f *fakeArtifacts) SetUploaded(ctx context.Context, id, remoteURL string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.RemoteURL = &remoteURL
	a.UploadState = models.UploadStateUploaded
	return nil
}

func (f *fakeArtifacts) SetFailed(ctx context.Context, id string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.UploadState = models.UploadStateFailed
	return nil
}

func (f *fakeArtifacts) DeleteByEntry(ctx context.Context, entryID string) error {
	delete(f.byEntry, entryID)
	f.m.ops = append(f.m.ops, "delete artifacts "+entryID)
	return nil
}

type fakeFeedback struct {
	m           *fakeRepoManager
	idsByTarget map[string][]string
	created     []*models.Feedback
}

func (f *fakeFeedback) addTarget(targetType, targetID string, feedbackIDs ...string) {
	f.idsByTarget[targetType+"|"+targetID] = feedbackIDs
}

func (f *fakeFeedback) Create(ctx context.Context, fb *models.Feedback) error {
	for _, existing := range f.created {
		if existing.ID == fb.ID {
			return common.ErrConflict
		}
	}
	f.created = append(f.created, fb)
	return nil
}

func (f *fakeFeedback) ListByTarget(ctx context.Context, targetType, targetID string) ([]*models.Feedback, error) {
	var result []*models.Feedback
	for _, fb := range f.created {
		if fb.TargetType == targetType && fb.TargetID == targetID {
			result = append(result, fb)
		}
	}
	return result, nil
}

func (f *fakeFeedback) ListIDsByTargets(ctx context.Context, targetType string, targetIDs []string) ([]string, error) {
	var result []string
	for _, id := range targetIDs {
		result = append(result, f.idsByTarget[targetType+"|"+id]...)
	}
	return result, nil
}

func (f *fakeFeedback) DeleteMarkersByFeedbackIDs(ctx context.Context, feedbackIDs []string) error {
	f.m.ops = append(f.m.ops, fmt.Sprintf("delete markers %v", feedbackIDs))
	return nil
}

func (f *fakeFeedback) DeleteByIDs(ctx context.Context, feedbackIDs []string) error {
	f.m.ops = append(f.m.ops, fmt.Sprintf("delete feedback %v", feedbackIDs))
	return nil
}

type fakeRefreshTokens struct {
	rows map[string]*models.RefreshToken
}

func (f *fakeRefreshTokens) Create(ctx context.Context, token *models.RefreshToken) error {
	f.rows[token.ID] = token
	return nil
}

func (f *fakeRefreshTokens) GetByID(ctx context.Context, id string) (*models.RefreshToken, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (f *fakeRefreshTokens) Revoke(ctx context.Context, id string, at time.Time) error {
	t, ok := f.rows[id]
	if !ok || t.RevokedAt != nil {
		return common.ErrConflict
	}
	t.RevokedAt = &at
	return nil
}

type fakeStore struct {
	presignErr error
	headErr    error
	deleteErr  error

	deleted []string
}

func (f *fakeStore) PresignPut(ctx context.Context, key, contentType string) (string, time.Duration, error) {
	if f.presignErr != nil {
		return "", 0, f.presignErr
	}
	return "https://store.test/put/" + key, 15 * time.Minute, nil
}

func (f *fakeStore) Head(ctx context.Context, key string) error {
	return f.headErr
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) RemoteURL(key string) string {
	return "s3://test-bucket/" + key
}
