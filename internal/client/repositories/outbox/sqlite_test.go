package outbox

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonance-app/resonance/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE sync_tasks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  type TEXT NOT NULL,
  payload TEXT NOT NULL,
  retry_count INTEGER NOT NULL DEFAULT 0,
  next_attempt_at TIMESTAMP,
  last_error TEXT,
  created_at TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestEnqueue_PersistsBeforeReturning(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, models.CreateEntryPayload{EntryID: "en_1"}))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSelectReady_ReturnsTasksInInsertionOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, models.CreateArtifactPayload{ArtifactID: "ar_1"}))
	require.NoError(t, r.Enqueue(ctx, models.UploadArtifactPayload{ArtifactID: "ar_1"}))
	require.NoError(t, r.Enqueue(ctx, models.ConfirmArtifactPayload{ArtifactID: "ar_1"}))

	tasks, err := r.SelectReady(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, models.TaskCreateArtifact, tasks[0].Type)
	assert.Equal(t, models.TaskUploadArtifact, tasks[1].Type)
	assert.Equal(t, models.TaskConfirmArtifact, tasks[2].Type)
}

func TestSelectReady_RestoresTypedPayload(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, models.PostFeedbackPayload{FeedbackID: "fb_42"}))

	tasks, err := r.SelectReady(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	payload, ok := tasks[0].Payload.(models.PostFeedbackPayload)
	require.True(t, ok)
	assert.Equal(t, "fb_42", payload.FeedbackID)
}

func TestRecordFailure_SchedulesExponentialBackoff(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, models.SubmitEntryPayload{EntryID: "en_1"}))
	tasks, err := r.SelectReady(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	now := time.Now().UTC()
	require.NoError(t, r.RecordFailure(ctx, tasks[0].ID, "server unavailable", now))

	// Not ready before the backoff expires, ready after.
	ready, err := r.SelectReady(ctx, now.Add(1*time.Second))
	require.NoError(t, err)
	assert.Empty(t, ready)

	ready, err = r.SelectReady(ctx, now.Add(3*time.Second))
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, 1, ready[0].RetryCount)
	require.NotNil(t, ready[0].LastError)
	assert.Equal(t, "server unavailable", *ready[0].LastError)
}

func TestRecordFailure_RetryCountAccumulates(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, models.DeleteEntryPayload{EntryID: "en_1"}))
	tasks, err := r.SelectReady(ctx, time.Now().UTC())
	require.NoError(t, err)
	id := tasks[0].ID

	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		require.NoError(t, r.RecordFailure(ctx, id, "still failing", now))
	}

	ready, err := r.SelectReady(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, 4, ready[0].RetryCount)
}

func TestRemove_DropsTheTask(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, models.CreateEntryPayload{EntryID: "en_1"}))
	tasks, err := r.SelectReady(ctx, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, tasks[0].ID))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRemove_MissingTaskIsAnError(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := r.Remove(ctx, 12345)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong rows affected count")
}
