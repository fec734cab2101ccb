// Package cli is the interactive front end of the practice journal
// client. It wires the local database, the Remote API client and the
// sync engine together and drives them from a small REPL.
package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/resonance-app/resonance/internal/client/api"
	"github.com/resonance-app/resonance/internal/client/config"
	"github.com/resonance-app/resonance/internal/client/services"
	"github.com/resonance-app/resonance/internal/client/store"
	"github.com/resonance-app/resonance/internal/client/sync"
	"github.com/resonance-app/resonance/internal/logging"
)

type App struct {
	config      *config.Config
	session     *sync.Session
	authService *services.AuthService
	journal     *services.JournalService
	engine      *sync.Engine
	trigger     chan struct{}
	reader      *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {

	repos, err := store.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	session, err := sync.LoadSession(ctx, repos.Session)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewClient(cfg.ServerBaseURL, cfg.RequestTimeout, session)

	executor := sync.NewExecutor(apiClient, repos.Entries, repos.Artifacts, repos.Feedback, logger)
	engine := sync.NewEngine(repos.Outbox, session, executor, logger)

	return &App{
		config:      cfg,
		session:     session,
		authService: services.NewAuthService(apiClient, session),
		journal:     services.NewJournalService(repos, apiClient),
		engine:      engine,
		trigger:     make(chan struct{}, 1),
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

// requestSync nudges the background engine without blocking.
func (a *App) requestSync() {
	select {
	case a.trigger <- struct{}{}:
	default:
	}
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.engine.Run(ctx, a.config.SyncInterval, a.trigger)

	a.Root(ctx)
}
