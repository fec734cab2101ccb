// Package courses provides PostgreSQL-backed storage for courses and
// memberships, the sole source of authorization truth.
package courses

import (
	"context"

	"github.com/resonance-app/resonance/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	ListForUser(ctx context.Context, userID string) ([]*models.CourseWithRole, error)
	UpsertMembership(ctx context.Context, m *models.Membership) error
	GetRole(ctx context.Context, userID, courseID string) (string, error)
}
