// Package feedback provides PostgreSQL-backed storage for feedback and its
// markers. Markers live and die with their owning feedback row.
package feedback

import (
	"context"

	"github.com/resonance-app/resonance/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, fb *models.Feedback) error
	ListByTarget(ctx context.Context, targetType, targetID string) ([]*models.Feedback, error)
	ListIDsByTargets(ctx context.Context, targetType string, targetIDs []string) ([]string, error)
	DeleteMarkersByFeedbackIDs(ctx context.Context, feedbackIDs []string) error
	DeleteByIDs(ctx context.Context, feedbackIDs []string) error
}
