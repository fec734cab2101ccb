package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/resonance-app/resonance/internal/client/models"
	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Tags are stored as a JSON array so values containing commas or other
// separator characters survive the round trip unchanged.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(data string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, e *models.Entry) error {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO entries (id, course_id, practice_date, goal_text, duration_seconds, tags, notes, status, updated_at, synced, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			practice_date = excluded.practice_date,
			goal_text = excluded.goal_text,
			duration_seconds = excluded.duration_seconds,
			tags = excluded.tags,
			notes = excluded.notes,
			status = excluded.status,
			updated_at = excluded.updated_at,
			synced = excluded.synced,
			deleted = excluded.deleted`
	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.CourseID, e.PracticeDate, e.GoalText, e.DurationSeconds,
		tags, e.Notes, e.Status, e.UpdatedAt, e.Synced, e.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT id, course_id, practice_date, goal_text, duration_seconds, tags, notes, status, updated_at, synced, deleted
		FROM entries WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.Entry, error) {
	query := `SELECT id, course_id, practice_date, goal_text, duration_seconds, tags, notes, status, updated_at, synced, deleted
		FROM entries WHERE course_id = ? AND deleted = 0
		ORDER BY practice_date DESC`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE entries SET synced = 1 WHERE id = ?`, id)
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status string) error {
	return r.exec(ctx, `UPDATE entries SET status = ? WHERE id = ?`, status, id)
}

// MarkDeleted tombstones the row; it stays around until the delete task
// is acknowledged, then Purge drops it.
func (r *SQLiteRepository) MarkDeleted(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE entries SET deleted = 1 WHERE id = ?`, id)
}

func (r *SQLiteRepository) Purge(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM entries WHERE id = ?`, id)
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	e := &models.Entry{}
	var tags string
	if err := row.Scan(&e.ID, &e.CourseID, &e.PracticeDate, &e.GoalText,
		&e.DurationSeconds, &tags, &e.Notes, &e.Status, &e.UpdatedAt,
		&e.Synced, &e.Deleted); err != nil {
		return nil, err
	}
	decoded, err := decodeTags(tags)
	if err != nil {
		return nil, err
	}
	e.Tags = decoded
	return e, nil
}
