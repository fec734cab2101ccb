package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/resonance-app/resonance/internal/client/sync"
)

// sync runs a drain cycle right now instead of waiting for the ticker.
func (a *App) sync(ctx context.Context) {
	err := a.engine.TryDrain(ctx)
	if errors.Is(err, sync.ErrDrainInProgress) {
		fmt.Println("Sync already running.")
		return
	}
	if err != nil {
		log.Println("sync failed:", err)
		return
	}

	n, err := a.journal.PendingTasks(ctx)
	if err != nil {
		log.Println("could not count pending tasks:", err)
		return
	}
	if n == 0 {
		fmt.Println("Everything is synced.")
	} else {
		fmt.Printf("%d task(s) still pending; they will be retried.\n", n)
	}
}

func (a *App) status(ctx context.Context) {
	n, err := a.journal.PendingTasks(ctx)
	if err != nil {
		log.Println("could not count pending tasks:", err)
		return
	}
	fmt.Printf("Pending sync tasks: %d\n", n)
}
