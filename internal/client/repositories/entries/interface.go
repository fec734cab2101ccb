// Package entries stores the local copies of practice journal entries.
package entries

import (
	"context"

	"github.com/resonance-app/resonance/internal/client/models"
)

type Repository interface {
	CreateOrUpdate(ctx context.Context, e *models.Entry) error
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Entry, error)
	MarkSynced(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status string) error
	MarkDeleted(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}
