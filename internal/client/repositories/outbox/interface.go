// Package outbox persists sync tasks in creation order until each one is
// acknowledged by the server.
package outbox

import (
	"context"
	"time"

	"github.com/resonance-app/resonance/internal/client/models"
)

// Repository is the durable queue contract. Enqueue must persist the task
// before returning; SelectReady returns pending tasks whose next attempt
// time has passed (or was never set), oldest first.
type Repository interface {
	Enqueue(ctx context.Context, payload models.TaskPayload) error
	SelectReady(ctx context.Context, now time.Time) ([]*models.SyncTask, error)
	Remove(ctx context.Context, id int64) error
	RecordFailure(ctx context.Context, id int64, errText string, now time.Time) error
	Count(ctx context.Context) (int, error)
}
