// Package feedback stores teacher feedback and its timestamped markers.
package feedback

import (
	"context"

	"github.com/resonance-app/resonance/internal/client/models"
)

type Repository interface {
	CreateOrUpdate(ctx context.Context, fb *models.Feedback) error
	GetByID(ctx context.Context, id string) (*models.Feedback, error)
	ListByTarget(ctx context.Context, targetType, targetID string) ([]*models.Feedback, error)
	MarkSynced(ctx context.Context, id string) error
	DeleteByTarget(ctx context.Context, targetType, targetID string) error
}
