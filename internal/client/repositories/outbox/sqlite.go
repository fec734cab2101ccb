package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/resonance-app/resonance/internal/client/models"
	"github.com/resonance-app/resonance/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, payload models.TaskPayload) error {
	data, err := models.EncodePayload(payload)
	if err != nil {
		return err
	}

	query := `INSERT INTO sync_tasks (type, payload, retry_count, created_at) VALUES (?, ?, 0, ?)`
	if _, err := r.db.ExecContext(ctx, query, string(models.TypeOf(payload)), string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", models.TypeOf(payload), err)
	}
	return nil
}

func (r *SQLiteRepository) SelectReady(ctx context.Context, now time.Time) ([]*models.SyncTask, error) {
	query := `SELECT id, type, payload, retry_count, next_attempt_at, last_error, created_at
		FROM sync_tasks
		WHERE next_attempt_at IS NULL OR next_attempt_at <= ?
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to select ready tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.SyncTask
	for rows.Next() {
		var (
			task     models.SyncTask
			taskType string
			payload  string
		)
		if err := rows.Scan(&task.ID, &taskType, &payload, &task.RetryCount,
			&task.NextAttemptAt, &task.LastError, &task.CreatedAt); err != nil {
			return nil, err
		}
		task.Type = models.TaskType(taskType)
		task.Payload, err = models.DecodePayload(task.Type, []byte(payload))
		if err != nil {
			return nil, err
		}
		result = append(result, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sync_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove task %d: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

// RecordFailure bumps the retry counter and pushes the next attempt out by
// the backoff delay computed from the new counter value.
func (r *SQLiteRepository) RecordFailure(ctx context.Context, id int64, errText string, now time.Time) error {
	var retryCount int
	err := r.db.QueryRowContext(ctx, `SELECT retry_count FROM sync_tasks WHERE id = ?`, id).Scan(&retryCount)
	if err != nil {
		return fmt.Errorf("failed to load task %d: %w", id, err)
	}

	retryCount++
	nextAttempt := now.Add(Backoff(retryCount))

	query := `UPDATE sync_tasks SET retry_count = ?, next_attempt_at = ?, last_error = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, retryCount, nextAttempt, errText, id); err != nil {
		return fmt.Errorf("failed to record failure for task %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM sync_tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}
