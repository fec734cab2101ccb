package artifacts

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

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Artifact) error {
	query := `INSERT INTO artifacts (id, entry_id, type, duration_seconds, upload_state, storage_key, remote_url, local_path, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.EntryID, a.Type, a.DurationSeconds, a.UploadState,
		a.StorageKey, a.RemoteURL, a.LocalPath, a.Synced)
	if err != nil {
		return fmt.Errorf("failed to insert artifact: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Artifact, error) {
	query := `SELECT id, entry_id, type, duration_seconds, upload_state, storage_key, remote_url, local_path, synced
		FROM artifacts WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	a := &models.Artifact{}
	err := row.Scan(&a.ID, &a.EntryID, &a.Type, &a.DurationSeconds,
		&a.UploadState, &a.StorageKey, &a.RemoteURL, &a.LocalPath, &a.Synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListByEntry(ctx context.Context, entryID string) ([]*models.Artifact, error) {
	query := `SELECT id, entry_id, type, duration_seconds, upload_state, storage_key, remote_url, local_path, synced
		FROM artifacts WHERE entry_id = ?`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select artifacts: %w", err)
	}
	defer rows.Close()

	var result []*models.Artifact
	for rows.Next() {
		a := &models.Artifact{}
		if err := rows.Scan(&a.ID, &a.EntryID, &a.Type, &a.DurationSeconds,
			&a.UploadState, &a.StorageKey, &a.RemoteURL, &a.LocalPath, &a.Synced); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE artifacts SET synced = 1 WHERE id = ?`, id)
}

func (r *SQLiteRepository) SetUploadState(ctx context.Context, id string, state string) error {
	return r.exec(ctx, `UPDATE artifacts SET upload_state = ? WHERE id = ?`, state, id)
}

func (r *SQLiteRepository) SetRemote(ctx context.Context, id string, state string, storageKey, remoteURL *string) error {
	return r.exec(ctx, `UPDATE artifacts SET upload_state = ?, storage_key = ?, remote_url = ? WHERE id = ?`,
		state, storageKey, remoteURL, id)
}

func (r *SQLiteRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	return r.exec(ctx, `DELETE FROM artifacts WHERE entry_id = ?`, entryID)
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update artifact: %w", err)
	}
	return nil
}
