package feedback

import (
	"context"
	"database/sql"
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

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, fb *models.Feedback) error {
	query := `INSERT INTO feedback (id, target_type, target_id, teacher_id, teacher_name, status, comments_text, created_at, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			teacher_id = excluded.teacher_id,
			teacher_name = excluded.teacher_name,
			status = excluded.status,
			comments_text = excluded.comments_text,
			synced = excluded.synced`
	_, err := r.db.ExecContext(ctx, query,
		fb.ID, fb.TargetType, fb.TargetID, fb.TeacherID, fb.TeacherName,
		fb.Status, fb.CommentsText, fb.CreatedAt, fb.Synced)
	if err != nil {
		return fmt.Errorf("failed to upsert feedback: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM markers WHERE feedback_id = ?`, fb.ID); err != nil {
		return fmt.Errorf("failed to clear markers: %w", err)
	}
	for _, m := range fb.Markers {
		query := `INSERT INTO markers (id, feedback_id, time_seconds, text) VALUES (?, ?, ?, ?)`
		if _, err := r.db.ExecContext(ctx, query, m.ID, fb.ID, m.TimeSeconds, m.Text); err != nil {
			return fmt.Errorf("failed to insert marker: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	query := `SELECT id, target_type, target_id, teacher_id, teacher_name, status, comments_text, created_at, synced
		FROM feedback WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	fb := &models.Feedback{}
	err := row.Scan(&fb.ID, &fb.TargetType, &fb.TargetID, &fb.TeacherID,
		&fb.TeacherName, &fb.Status, &fb.CommentsText, &fb.CreatedAt, &fb.Synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	markers, err := r.markersFor(ctx, fb.ID)
	if err != nil {
		return nil, err
	}
	fb.Markers = markers
	return fb, nil
}

func (r *SQLiteRepository) ListByTarget(ctx context.Context, targetType, targetID string) ([]*models.Feedback, error) {
	query := `SELECT id, target_type, target_id, teacher_id, teacher_name, status, comments_text, created_at, synced
		FROM feedback WHERE target_type = ? AND target_id = ?
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to select feedback: %w", err)
	}
	defer rows.Close()

	var result []*models.Feedback
	for rows.Next() {
		fb := &models.Feedback{}
		if err := rows.Scan(&fb.ID, &fb.TargetType, &fb.TargetID, &fb.TeacherID,
			&fb.TeacherName, &fb.Status, &fb.CommentsText, &fb.CreatedAt, &fb.Synced); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, fb := range result {
		markers, err := r.markersFor(ctx, fb.ID)
		if err != nil {
			return nil, err
		}
		fb.Markers = markers
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE feedback SET synced = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to mark feedback synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByTarget(ctx context.Context, targetType, targetID string) error {
	query := `DELETE FROM markers WHERE feedback_id IN
		(SELECT id FROM feedback WHERE target_type = ? AND target_id = ?)`
	if _, err := r.db.ExecContext(ctx, query, targetType, targetID); err != nil {
		return fmt.Errorf("failed to delete markers: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE target_type = ? AND target_id = ?`,
		targetType, targetID); err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) markersFor(ctx context.Context, feedbackID string) ([]*models.Marker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, feedback_id, time_seconds, text FROM markers WHERE feedback_id = ? ORDER BY time_seconds`, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("failed to select markers: %w", err)
	}
	defer rows.Close()

	var result []*models.Marker
	for rows.Next() {
		m := &models.Marker{}
		if err := rows.Scan(&m.ID, &m.FeedbackID, &m.TimeSeconds, &m.Text); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
