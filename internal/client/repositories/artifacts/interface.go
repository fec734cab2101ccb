// Package artifacts stores the local copies of media attachments.
package artifacts

import (
	"context"

	"github.com/resonance-app/resonance/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Artifact) error
	GetByID(ctx context.Context, id string) (*models.Artifact, error)
	ListByEntry(ctx context.Context, entryID string) ([]*models.Artifact, error)
	MarkSynced(ctx context.Context, id string) error
	SetUploadState(ctx context.Context, id string, state string) error
	SetRemote(ctx context.Context, id string, state string, storageKey, remoteURL *string) error
	DeleteByEntry(ctx context.Context, entryID string) error
}
