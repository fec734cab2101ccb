// Package artifacts provides PostgreSQL-backed storage for media artifacts.
package artifacts

import (
	"context"

	"github.com/resonance-app/resonance/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, artifact *models.Artifact) error
	GetByID(ctx context.Context, id string) (*models.Artifact, error)
	ListByEntry(ctx context.Context, entryID string) ([]*models.Artifact, error)
	SetPresigned(ctx context.Context, id, storageKey string) error
	SetUploaded(ctx context.Context, id, remoteURL string) error
	SetFailed(ctx context.Context, id string) error
	DeleteByEntry(ctx context.Context, entryID string) error
}
