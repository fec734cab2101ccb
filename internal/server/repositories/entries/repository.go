// Package entries provides PostgreSQL-backed storage for practice entries.
package entries

import (
	"context"
	"time"

	"github.com/resonance-app/resonance/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	SetStatus(ctx context.Context, id, status string) error
	MarkDeleted(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string, studentID string) ([]*models.Entry, error)
	ListSubmitted(ctx context.Context, courseID string) ([]*models.EntryWithArtifacts, error)
}
