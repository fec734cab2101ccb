package sync

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resonance-app/resonance/internal/client/api"
	"github.com/resonance-app/resonance/internal/client/repositories/session"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserID       = "user_id"
	keyUserRole     = "user_role"
	keyDisplayName  = "display_name"
)

// Session owns the authenticated identity. All writes go through it and
// are persisted in the session table; the sync engine is the only caller
// of StoreTokens during a drain, so token rotation has a single writer.
type Session struct {
	mu   sync.RWMutex
	repo session.Repository

	accessToken  string
	refreshToken string
	expiresAt    time.Time
	userID       string
	role         string
	displayName  string
}

// LoadSession restores a persisted session from the local database.
func LoadSession(ctx context.Context, repo session.Repository) (*Session, error) {
	s := &Session{repo: repo}

	values := map[string]*string{
		keyAccessToken:  &s.accessToken,
		keyRefreshToken: &s.refreshToken,
		keyUserID:       &s.userID,
		keyUserRole:     &s.role,
		keyDisplayName:  &s.displayName,
	}
	for key, dst := range values {
		v, err := repo.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	if s.accessToken != "" {
		s.expiresAt = tokenExpiry(s.accessToken)
	}
	return s, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client only needs it to schedule refresh-ahead, the server still
// validates every request.
func tokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// AccessToken implements api.TokenSource.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, nil
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken != ""
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Session) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayName
}

// StoreLogin persists a fresh session after a code exchange.
func (s *Session) StoreLogin(ctx context.Context, res *api.SessionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{
		keyAccessToken:  res.AccessToken,
		keyRefreshToken: res.RefreshToken,
		keyUserID:       res.User.ID,
		keyUserRole:     res.User.GlobalRole,
		keyDisplayName:  res.User.DisplayName,
	}
	for key, v := range values {
		if err := s.repo.Set(ctx, key, v); err != nil {
			return err
		}
	}

	s.accessToken = res.AccessToken
	s.refreshToken = res.RefreshToken
	s.expiresAt = tokenExpiry(res.AccessToken)
	s.userID = res.User.ID
	s.role = res.User.GlobalRole
	s.displayName = res.User.DisplayName
	return nil
}

// StoreTokens persists a rotated token pair.
func (s *Session) StoreTokens(ctx context.Context, pair *api.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Set(ctx, keyAccessToken, pair.AccessToken); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, keyRefreshToken, pair.RefreshToken); err != nil {
		return err
	}

	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.expiresAt = tokenExpiry(pair.AccessToken)
	return nil
}

// Clear forgets the session, locally and in the store.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.userID = ""
	s.role = ""
	s.displayName = ""
	return nil
}
