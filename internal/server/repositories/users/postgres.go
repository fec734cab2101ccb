package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/dbx"
	"github.com/resonance-app/resonance/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert creates the user or refreshes display name and role for an
// existing id. Used by the dev login flow.
func (r *PostgresRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, display_name, global_role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET display_name = EXCLUDED.display_name, global_role = EXCLUDED.global_role
		RETURNING id, display_name, global_role, created_at
	`
	row := r.db.QueryRowContext(ctx, query, user.ID, user.DisplayName, user.GlobalRole)

	u := &models.User{}
	if err := row.Scan(&u.ID, &u.DisplayName, &u.GlobalRole, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, display_name, global_role, created_at FROM users WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)

	u := &models.User{}
	if err := row.Scan(&u.ID, &u.DisplayName, &u.GlobalRole, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return u, nil
}
