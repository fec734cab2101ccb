package artifacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const artifactColumns = `id, entry_id, type, duration_seconds, upload_state, storage_key, remote_url, created_at`

// Create inserts a new artifact keyed by its client-supplied id. A duplicate
// id yields ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, artifact *models.Artifact) error {
	query := `
		INSERT INTO artifacts (id, entry_id, type, duration_seconds, upload_state)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		artifact.ID, artifact.EntryID, artifact.Type, artifact.DurationSeconds, artifact.UploadState); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrConflict
		}
		return fmt.Errorf("failed to insert artifact: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Artifact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+artifactColumns+` FROM artifacts WHERE id=$1`, id)

	a := &models.Artifact{}
	if err := row.Scan(&a.ID, &a.EntryID, &a.Type, &a.DurationSeconds,
		&a.UploadState, &a.StorageKey, &a.RemoteURL, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select artifact: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListByEntry(ctx context.Context, entryID string) ([]*models.Artifact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+artifactColumns+` FROM artifacts WHERE entry_id=$1 ORDER BY created_at, id`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select artifacts: %w", err)
	}
	defer rows.Close()

	var result []*models.Artifact
	for rows.Next() {
		a := &models.Artifact{}
		if err := rows.Scan(&a.ID, &a.EntryID, &a.Type, &a.DurationSeconds,
			&a.UploadState, &a.StorageKey, &a.RemoteURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPresigned stores the storage key and moves the artifact to uploading.
// The key is written only once; re-presigning keeps the existing key.
func (r *PostgresRepository) SetPresigned(ctx context.Context, id, storageKey string) error {
	query := `
		UPDATE artifacts
		SET storage_key = COALESCE(storage_key, $2), upload_state = 'uploading'
		WHERE id=$1
	`
	res, err := r.db.ExecContext(ctx, query, id, storageKey)
	if err != nil {
		return fmt.Errorf("failed to presign artifact: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) SetUploaded(ctx context.Context, id, remoteURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE artifacts SET upload_state='uploaded', remote_url=$2 WHERE id=$1`, id, remoteURL)
	if err != nil {
		return fmt.Errorf("failed to mark artifact uploaded: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) SetFailed(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE artifacts SET upload_state='failed' WHERE id=$1 AND upload_state <> 'uploaded'`, id)
	if err != nil {
		return fmt.Errorf("failed to mark artifact failed: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM artifacts WHERE entry_id=$1`, entryID); err != nil {
		return fmt.Errorf("failed to delete artifacts: %w", err)
	}
	return nil
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
