// Package store opens the local SQLite database and binds the
// repositories to it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/resonance-app/resonance/internal/client/migrations"
	"github.com/resonance-app/resonance/internal/client/repositories/artifacts"
	"github.com/resonance-app/resonance/internal/client/repositories/courses"
	"github.com/resonance-app/resonance/internal/client/repositories/entries"
	"github.com/resonance-app/resonance/internal/client/repositories/feedback"
	"github.com/resonance-app/resonance/internal/client/repositories/outbox"
	"github.com/resonance-app/resonance/internal/client/repositories/session"
)

type Repositories struct {
	Outbox    outbox.Repository
	Courses   courses.Repository
	Entries   entries.Repository
	Artifacts artifacts.Repository
	Feedback  feedback.Repository
	Session   session.Repository
	DB        *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		Outbox:    outbox.NewSQLiteRepository(db),
		Courses:   courses.NewSQLiteRepository(db),
		Entries:   entries.NewSQLiteRepository(db),
		Artifacts: artifacts.NewSQLiteRepository(db),
		Feedback:  feedback.NewSQLiteRepository(db),
		Session:   session.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}
