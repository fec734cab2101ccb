// Package sync drains the durable task queue against the Remote API.
package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/resonance-app/resonance/internal/client/models"
	"github.com/resonance-app/resonance/internal/client/repositories/outbox"
	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/logging"
)

// ErrDrainInProgress is returned when TryDrain is called while another
// cycle is still running.
var ErrDrainInProgress = errors.New("drain already in progress")

// refreshSkew is how close to expiry the access token may get before a
// cycle refreshes it up front.
const refreshSkew = 30 * time.Second

// Engine is the single serialized sync worker. Tasks execute strictly in
// insertion order within a cycle; one task's failure is recorded and the
// cycle moves on, so dependent tasks keep their relative order while
// unrelated ones are not blocked.
type Engine struct {
	queue    outbox.Repository
	session  *Session
	executor *Executor
	logger   logging.Logger

	mu sync.Mutex
}

func NewEngine(queue outbox.Repository, session *Session, executor *Executor, logger logging.Logger) *Engine {
	return &Engine{queue: queue, session: session, executor: executor, logger: logger}
}

// TryDrain runs one cycle. It refuses to run concurrently with itself.
// A failed session refresh aborts the whole cycle: without a valid token
// every task would fail and burn its retry budget for nothing.
func (e *Engine) TryDrain(ctx context.Context) error {
	if !e.mu.TryLock() {
		return ErrDrainInProgress
	}
	defer e.mu.Unlock()

	if !e.session.Authenticated() {
		return nil
	}

	if time.Until(e.session.ExpiresAt()) < refreshSkew {
		if err := e.refreshSession(ctx); err != nil {
			e.logger.Error(ctx, "session refresh failed, aborting cycle", "error", err)
			return err
		}
	}

	tasks, err := e.queue.SelectReady(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if err := e.runTask(ctx, task); err != nil {
			e.logger.Info(ctx, "task failed", "task", task.Type, "id", task.ID, "error", err)
			if rfErr := e.queue.RecordFailure(ctx, task.ID, err.Error(), time.Now().UTC()); rfErr != nil {
				return rfErr
			}
			continue
		}
		if err := e.queue.Remove(ctx, task.ID); err != nil {
			return err
		}
	}
	return nil
}

// runTask executes one task, retrying once after a refresh if the server
// rejected the access token mid-cycle.
func (e *Engine) runTask(ctx context.Context, task *models.SyncTask) error {
	err := e.executor.Execute(ctx, task)
	if err == nil || !errors.Is(err, common.ErrAuth) {
		return err
	}

	if refreshErr := e.refreshSession(ctx); refreshErr != nil {
		return refreshErr
	}
	return e.executor.Execute(ctx, task)
}

func (e *Engine) refreshSession(ctx context.Context) error {
	pair, err := e.executor.api.Refresh(ctx, e.session.RefreshToken())
	if err != nil {
		return err
	}
	return e.session.StoreTokens(ctx, pair)
}

// Run drains periodically and whenever trigger fires, until ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration, trigger <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-trigger:
		}

		if err := e.TryDrain(ctx); err != nil && !errors.Is(err, ErrDrainInProgress) {
			e.logger.Error(ctx, "drain cycle failed", "error", err)
		}
	}
}
