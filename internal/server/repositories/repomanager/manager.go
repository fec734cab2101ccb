// Package repomanager aggregates the per-entity repositories behind one
// interface so services can bind them to either *sql.DB or an open
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/resonance-app/resonance/internal/dbx"
	"github.com/resonance-app/resonance/internal/server/repositories/artifacts"
	"github.com/resonance-app/resonance/internal/server/repositories/courses"
	"github.com/resonance-app/resonance/internal/server/repositories/entries"
	"github.com/resonance-app/resonance/internal/server/repositories/feedback"
	"github.com/resonance-app/resonance/internal/server/repositories/refreshtokens"
	"github.com/resonance-app/resonance/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Courses(db dbx.DBTX) courses.Repository
	Entries(db dbx.DBTX) entries.Repository
	Artifacts(db dbx.DBTX) artifacts.Repository
	Feedback(db dbx.DBTX) feedback.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
