// Package courses caches the caller's course memberships locally.
package courses

import (
	"context"

	"github.com/resonance-app/resonance/internal/client/models"
)

type Repository interface {
	ReplaceAll(ctx context.Context, list []*models.Course) error
	List(ctx context.Context) ([]*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
}
