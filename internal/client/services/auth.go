package services

import (
	"context"

	"github.com/resonance-app/resonance/internal/client/api"
	"github.com/resonance-app/resonance/internal/client/sync"
)

// AuthService handles login and logout for the CLI.
type AuthService struct {
	api     *api.Client
	session *sync.Session
}

func NewAuthService(apiClient *api.Client, session *sync.Session) *AuthService {
	return &AuthService{api: apiClient, session: session}
}

// Login exchanges a one-time auth code for a session and persists it.
func (s *AuthService) Login(ctx context.Context, code string) (*api.User, error) {
	res, err := s.api.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.session.StoreLogin(ctx, res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// IssueDevCode requests a development auth code from the server.
func (s *AuthService) IssueDevCode(ctx context.Context, role string) (string, error) {
	return s.api.IssueDevCode(ctx, role)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

func (s *AuthService) Session() *sync.Session {
	return s.session
}
