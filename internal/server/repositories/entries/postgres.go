package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/dbx"
	"github.com/resonance-app/resonance/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `id, course_id, student_id, practice_date, goal_text, duration_seconds,
	tags, notes, status, created_at, updated_at, deleted_at`

func scanEntry(row interface{ Scan(...any) error }) (*models.Entry, error) {
	e := &models.Entry{}
	var tags []byte
	if err := row.Scan(&e.ID, &e.CourseID, &e.StudentID, &e.PracticeDate, &e.GoalText,
		&e.DurationSeconds, &tags, &e.Notes, &e.Status, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &e.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return e, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// Create inserts a new entry keyed by its client-supplied id. A duplicate id
// yields ErrConflict so the client can treat a retried create as already done.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) error {
	tags, err := encodeTags(entry.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO entries (id, course_id, student_id, practice_date, goal_text, duration_seconds, tags, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.CourseID, entry.StudentID, entry.PracticeDate, entry.GoalText,
		entry.DurationSeconds, tags, entry.Notes, entry.Status); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrConflict
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id=$1`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select entry: %w", err)
	}
	return e, nil
}

// Update persists the mutable fields of an entry and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	tags, err := encodeTags(entry.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE entries
		SET practice_date=$2, goal_text=$3, duration_seconds=$4, tags=$5, notes=$6, updated_at=now()
		WHERE id=$1
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.PracticeDate, entry.GoalText, entry.DurationSeconds, tags, entry.Notes)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	return expectOneRow(res)
}

// MarkDeleted sets deleted_at, the scheduled-for-deletion state visible only
// mid-transaction. The committed model hard-deletes via Delete.
func (r *PostgresRepository) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET deleted_at=$2 WHERE id=$1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark entry deleted: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return expectOneRow(res)
}

// ListByCourse returns non-deleted entries of a course. If studentID is
// non-empty the result is restricted to that student's own entries.
func (r *PostgresRepository) ListByCourse(ctx context.Context, courseID string, studentID string) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE course_id=$1 AND deleted_at IS NULL`
	args := []any{courseID}
	if studentID != "" {
		query += ` AND student_id=$2`
		args = append(args, studentID)
	}
	query += ` ORDER BY practice_date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
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

// ListSubmitted returns the review queue: submitted, non-deleted entries of a
// course with the student's display name and all artifacts attached.
func (r *PostgresRepository) ListSubmitted(ctx context.Context, courseID string) ([]*models.EntryWithArtifacts, error) {
	query := `
		SELECT e.id, e.course_id, e.student_id, e.practice_date, e.goal_text, e.duration_seconds,
			e.tags, e.notes, e.status, e.created_at, e.updated_at, e.deleted_at, u.display_name
		FROM entries e
		JOIN users u ON u.id = e.student_id
		WHERE e.course_id=$1 AND e.status='submitted' AND e.deleted_at IS NULL
		ORDER BY e.practice_date, e.id
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to select review queue: %w", err)
	}
	defer rows.Close()

	var result []*models.EntryWithArtifacts
	byID := make(map[string]*models.EntryWithArtifacts)
	for rows.Next() {
		item := &models.EntryWithArtifacts{}
		var tags []byte
		if err := rows.Scan(&item.ID, &item.CourseID, &item.StudentID, &item.PracticeDate,
			&item.GoalText, &item.DurationSeconds, &tags, &item.Notes, &item.Status,
			&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt, &item.StudentName); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		result = append(result, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	aq := `
		SELECT a.id, a.entry_id, a.type, a.duration_seconds, a.upload_state, a.storage_key, a.remote_url, a.created_at
		FROM artifacts a
		JOIN entries e ON e.id = a.entry_id
		WHERE e.course_id=$1 AND e.status='submitted' AND e.deleted_at IS NULL
		ORDER BY a.created_at, a.id
	`
	arows, err := r.db.QueryContext(ctx, aq, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to select review artifacts: %w", err)
	}
	defer arows.Close()

	for arows.Next() {
		a := &models.Artifact{}
		if err := arows.Scan(&a.ID, &a.EntryID, &a.Type, &a.DurationSeconds,
			&a.UploadState, &a.StorageKey, &a.RemoteURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		if item, ok := byID[a.EntryID]; ok {
			item.Artifacts = append(item.Artifacts, a)
		}
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}
