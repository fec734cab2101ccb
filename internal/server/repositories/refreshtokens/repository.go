// Package refreshtokens provides PostgreSQL-backed storage for refresh
// token records. Only token hashes are stored.
package refreshtokens

import (
	"context"
	"time"

	"github.com/resonance-app/resonance/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByID(ctx context.Context, id string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string, at time.Time) error
}
