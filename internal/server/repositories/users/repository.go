// Package users provides the PostgreSQL-backed user repository.
package users

import (
	"context"

	"github.com/resonance-app/resonance/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
