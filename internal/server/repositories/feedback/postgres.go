package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/dbx"
	"github.com/resonance-app/resonance/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a feedback row and all of its markers. The caller is
// expected to run this inside a transaction. A duplicate feedback id yields
// ErrConflict so a retried post is recognized as already applied.
func (r *PostgresRepository) Create(ctx context.Context, fb *models.Feedback) error {
	query := `
		INSERT INTO feedback (id, target_type, target_id, teacher_id, status, comments_text)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		fb.ID, fb.TargetType, fb.TargetID, fb.TeacherID, fb.Status, fb.CommentsText); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrConflict
		}
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	for _, m := range fb.Markers {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO markers (id, feedback_id, time_seconds, text) VALUES ($1, $2, $3, $4)`,
			m.ID, fb.ID, m.TimeSeconds, m.Text); err != nil {
			return fmt.Errorf("failed to insert marker: %w", err)
		}
	}
	return nil
}

// ListByTarget returns all feedback for one target with the teacher's display
// name and markers, oldest first.
func (r *PostgresRepository) ListByTarget(ctx context.Context, targetType, targetID string) ([]*models.Feedback, error) {
	query := `
		SELECT f.id, f.target_type, f.target_id, f.teacher_id, u.display_name, f.status, f.comments_text, f.created_at
		FROM feedback f
		JOIN users u ON u.id = f.teacher_id
		WHERE f.target_type=$1 AND f.target_id=$2
		ORDER BY f.created_at, f.id
	`
	rows, err := r.db.QueryContext(ctx, query, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to select feedback: %w", err)
	}
	defer rows.Close()

	var result []*models.Feedback
	byID := make(map[string]*models.Feedback)
	for rows.Next() {
		fb := &models.Feedback{}
		if err := rows.Scan(&fb.ID, &fb.TargetType, &fb.TargetID, &fb.TeacherID,
			&fb.TeacherName, &fb.Status, &fb.CommentsText, &fb.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, fb)
		byID[fb.ID] = fb
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(result))
	for _, fb := range result {
		ids = append(ids, fb.ID)
	}
	mq := `SELECT id, feedback_id, time_seconds, text FROM markers WHERE feedback_id IN (` +
		placeholders(1, len(ids)) + `) ORDER BY time_seconds, id`
	mrows, err := r.db.QueryContext(ctx, mq, toAnySlice(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to select markers: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		m := &models.Marker{}
		if err := mrows.Scan(&m.ID, &m.FeedbackID, &m.TimeSeconds, &m.Text); err != nil {
			return nil, err
		}
		if fb, ok := byID[m.FeedbackID]; ok {
			fb.Markers = append(fb.Markers, m)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListIDsByTargets returns ids of feedback rows targeting any of targetIDs.
func (r *PostgresRepository) ListIDsByTargets(ctx context.Context, targetType string, targetIDs []string) ([]string, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id FROM feedback WHERE target_type=$1 AND target_id IN (` +
		placeholders(2, len(targetIDs)) + `)`
	args := append([]any{targetType}, toAnySlice(targetIDs)...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select feedback ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) DeleteMarkersByFeedbackIDs(ctx context.Context, feedbackIDs []string) error {
	if len(feedbackIDs) == 0 {
		return nil
	}
	query := `DELETE FROM markers WHERE feedback_id IN (` + placeholders(1, len(feedbackIDs)) + `)`
	if _, err := r.db.ExecContext(ctx, query, toAnySlice(feedbackIDs)...); err != nil {
		return fmt.Errorf("failed to delete markers: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByIDs(ctx context.Context, feedbackIDs []string) error {
	if len(feedbackIDs) == 0 {
		return nil
	}
	query := `DELETE FROM feedback WHERE id IN (` + placeholders(1, len(feedbackIDs)) + `)`
	if _, err := r.db.ExecContext(ctx, query, toAnySlice(feedbackIDs)...); err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

// placeholders renders "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
