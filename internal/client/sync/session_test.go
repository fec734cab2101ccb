package sync

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/resonance-app/resonance/internal/client/api"
	"github.com/resonance-app/resonance/internal/client/repositories/session"
)

func setupSessionDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func TestSession_EmptyDatabaseIsUnauthenticated(t *testing.T) {
	repo := session.NewSQLiteRepository(setupSessionDB(t))

	s, err := LoadSession(context.Background(), repo)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.UserID())
}

func TestSession_LoginSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	db := setupSessionDB(t)
	repo := session.NewSQLiteRepository(db)

	s, err := LoadSession(ctx, repo)
	require.NoError(t, err)

	access := signedToken(t, time.Hour)
	require.NoError(t, s.StoreLogin(ctx, &api.SessionResult{
		AccessToken:  access,
		RefreshToken: "rt",
		User:         api.User{ID: "u1", DisplayName: "Dev Student", GlobalRole: "student"},
	}))

	// A fresh Session over the same database sees the stored identity.
	restored, err := LoadSession(ctx, session.NewSQLiteRepository(db))
	require.NoError(t, err)
	assert.True(t, restored.Authenticated())
	assert.Equal(t, "u1", restored.UserID())
	assert.Equal(t, "student", restored.Role())
	assert.Equal(t, "Dev Student", restored.DisplayName())

	got, err := restored.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, access, got)
}

func TestSession_ExpiryComesFromTokenClaims(t *testing.T) {
	ctx := context.Background()
	repo := session.NewSQLiteRepository(setupSessionDB(t))

	s, err := LoadSession(ctx, repo)
	require.NoError(t, err)

	require.NoError(t, s.StoreLogin(ctx, &api.SessionResult{
		AccessToken:  signedToken(t, 10*time.Minute),
		RefreshToken: "rt",
		User:         api.User{ID: "u1"},
	}))

	assert.WithinDuration(t, time.Now().Add(10*time.Minute), s.ExpiresAt(), 5*time.Second)
}

func TestSession_StoreTokensRotatesBothTokens(t *testing.T) {
	ctx := context.Background()
	repo := session.NewSQLiteRepository(setupSessionDB(t))

	s, err := LoadSession(ctx, repo)
	require.NoError(t, err)
	require.NoError(t, s.StoreLogin(ctx, &api.SessionResult{
		AccessToken:  signedToken(t, time.Minute),
		RefreshToken: "rt-old",
		User:         api.User{ID: "u1", GlobalRole: "student"},
	}))

	fresh := signedToken(t, time.Hour)
	require.NoError(t, s.StoreTokens(ctx, &api.TokenPair{AccessToken: fresh, RefreshToken: "rt-new"}))

	assert.Equal(t, "rt-new", s.RefreshToken())
	got, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
	// Identity fields are untouched by a token rotation.
	assert.Equal(t, "u1", s.UserID())
}

func TestSession_ClearForgetsEverything(t *testing.T) {
	ctx := context.Background()
	db := setupSessionDB(t)
	repo := session.NewSQLiteRepository(db)

	s, err := LoadSession(ctx, repo)
	require.NoError(t, err)
	require.NoError(t, s.StoreLogin(ctx, &api.SessionResult{
		AccessToken:  signedToken(t, time.Hour),
		RefreshToken: "rt",
		User:         api.User{ID: "u1"},
	}))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Authenticated())

	restored, err := LoadSession(ctx, session.NewSQLiteRepository(db))
	require.NoError(t, err)
	assert.False(t, restored.Authenticated())
}

func TestTokenExpiry_GarbageTokenIsZero(t *testing.T) {
	assert.True(t, tokenExpiry("not-a-jwt").IsZero())
}
