package courses

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

// ReplaceAll swaps the cached course list for the server's current view.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, list []*models.Course) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses`); err != nil {
		return fmt.Errorf("failed to clear courses: %w", err)
	}
	for _, c := range list {
		query := `INSERT INTO courses (id, title, role_in_course) VALUES (?, ?, ?)`
		if _, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.RoleInCourse); err != nil {
			return fmt.Errorf("failed to insert course: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, role_in_course FROM courses ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to select courses: %w", err)
	}
	defer rows.Close()

	var result []*models.Course
	for rows.Next() {
		c := &models.Course{}
		if err := rows.Scan(&c.ID, &c.Title, &c.RoleInCourse); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, role_in_course FROM courses WHERE id = ?`, id)

	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.RoleInCourse)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}
