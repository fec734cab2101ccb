// Package services contains server-side business logic: authorization,
// entity state machines, the cascade delete, and token issuance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/server/models"
	"github.com/resonance-app/resonance/internal/server/repositories/repomanager"
)

// AuthUser identifies the authenticated caller as carried by the access token.
type AuthUser struct {
	ID   string
	Role string
}

// authz resolves membership-based access. It is embedded by the services so
// every operation goes through the same checks.
type authz struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// courseRole resolves the caller's role in a course. No membership row means
// ErrAccessDenied; course existence is never leaked to non-members.
func (a *authz) courseRole(ctx context.Context, userID, courseID string) (string, error) {
	role, err := a.repomanager.Courses(a.db).GetRole(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, common.ErrAccessDenied) {
			return "", common.ErrAccessDenied
		}
		return "", fmt.Errorf("resolving course role: %w", err)
	}
	return role, nil
}

// entryAccess loads an entry and enforces the access rules: unknown id is
// ErrNotFound, a deleted entry is ErrGone (so clients can distinguish
// "never existed" from "was removed"), a non-member is ErrAccessDenied, and
// a student may only reach their own entries.
func (a *authz) entryAccess(ctx context.Context, user AuthUser, entryID string) (*models.Entry, error) {
	entry, err := a.repomanager.Entries(a.db).GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.DeletedAt != nil {
		return nil, common.ErrGone
	}

	role, err := a.courseRole(ctx, user.ID, entry.CourseID)
	if err != nil {
		return nil, err
	}
	if role == common.RoleStudent && entry.StudentID != user.ID {
		return nil, common.ErrAccessDenied
	}

	return entry, nil
}

// artifactAccess loads an artifact together with its parent entry and runs
// the same checks as entryAccess.
func (a *authz) artifactAccess(ctx context.Context, user AuthUser, artifactID string) (*models.Artifact, *models.Entry, error) {
	artifact, err := a.repomanager.Artifacts(a.db).GetByID(ctx, artifactID)
	if err != nil {
		return nil, nil, err
	}
	entry, err := a.entryAccess(ctx, user, artifact.EntryID)
	if err != nil {
		return nil, nil, err
	}
	return artifact, entry, nil
}
