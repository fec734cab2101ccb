package courses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Upsert(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, title) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title
	`
	if _, err := r.db.ExecContext(ctx, query, course.ID, course.Title); err != nil {
		return fmt.Errorf("failed to upsert course: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title FROM courses WHERE id=$1`, id)

	c := &models.Course{}
	if err := row.Scan(&c.ID, &c.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select course: %w", err)
	}
	return c, nil
}

// ListForUser returns the courses the user is a member of, joined with the
// role held in each.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]*models.CourseWithRole, error) {
	query := `
		SELECT c.id, c.title, m.role_in_course
		FROM memberships m
		JOIN courses c ON c.id = m.course_id
		WHERE m.user_id = $1
		ORDER BY c.title
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select courses: %w", err)
	}
	defer rows.Close()

	var result []*models.CourseWithRole
	for rows.Next() {
		var item models.CourseWithRole
		if err := rows.Scan(&item.ID, &item.Title, &item.RoleInCourse); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpsertMembership(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO memberships (user_id, course_id, role_in_course)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id) DO UPDATE SET role_in_course = EXCLUDED.role_in_course
	`
	if _, err := r.db.ExecContext(ctx, query, m.UserID, m.CourseID, m.RoleInCourse); err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

// GetRole resolves (userID, courseID) to the caller's role in the course.
// A missing membership row yields ErrAccessDenied, never a not-found,
// so non-members cannot probe course existence.
func (r *PostgresRepository) GetRole(ctx context.Context, userID, courseID string) (string, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT role_in_course FROM memberships WHERE user_id=$1 AND course_id=$2`, userID, courseID)

	var role string
	if err := row.Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrAccessDenied
		}
		return "", fmt.Errorf("failed to select membership: %w", err)
	}
	return role, nil
}
