package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/dbx"
	"github.com/resonance-app/resonance/internal/server/auth"
	"github.com/resonance-app/resonance/internal/server/config"
	"github.com/resonance-app/resonance/internal/server/models"
	"github.com/resonance-app/resonance/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService issues sessions from one-time auth codes and rotates refresh
// tokens. Rotation revokes the old token atomically with issuance of the new
// one; a revoked or expired token is never accepted again.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	devCodes    *auth.DevCodeStore
	authMode    string
	jwtSecret   []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		devCodes:    auth.NewDevCodeStore(),
		authMode:    cfg.AuthMode,
		jwtSecret:   []byte(cfg.SecretKey),
		accessTTL:   cfg.AccessTokenValidityDuration,
		refreshTTL:  cfg.RefreshTokenValidityDuration,
	}
}

// IssueDevCode provisions the dev user, course and membership for the given
// role and mints a one-time auth code bound to that user. Only available in
// dev auth mode.
func (s *AuthService) IssueDevCode(ctx context.Context, role string) (string, error) {
	if s.authMode != "dev" {
		return "", common.ErrNotFound
	}
	if role != common.RoleStudent && role != common.RoleTeacher {
		return "", fmt.Errorf("%w: invalid role %q", common.ErrValidation, role)
	}

	userID := "dev-student"
	displayName := "Dev Student"
	if role == common.RoleTeacher {
		userID = "dev-teacher"
		displayName = "Dev Teacher"
	}

	const courseID = "COURSE_101"

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Upsert(ctx, &models.User{
			ID: userID, DisplayName: displayName, GlobalRole: role,
		})
		if err != nil {
			return err
		}
		if err := s.repomanager.Courses(tx).Upsert(ctx, &models.Course{
			ID: courseID, Title: "Piano Technique 101",
		}); err != nil {
			return err
		}
		return s.repomanager.Courses(tx).UpsertMembership(ctx, &models.Membership{
			UserID: user.ID, CourseID: courseID, RoleInCourse: role,
		})
	})
	if err != nil {
		return "", fmt.Errorf("provisioning dev user: %w", err)
	}

	return s.devCodes.Issue(user.ID)
}

// ExchangeCode consumes a one-time auth code and returns a token pair plus
// the authenticated user.
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (*TokenPair, *models.User, error) {
	if s.authMode != "dev" {
		return nil, nil, fmt.Errorf("%w: production auth not configured", common.ErrConflict)
	}

	userID := s.devCodes.Consume(code)
	if userID == "" {
		return nil, nil, fmt.Errorf("%w: invalid or expired auth code", common.ErrAuth)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrAuth
		}
		return nil, nil, err
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh validates a refresh token and rotates it: the old record is
// revoked and a new pair issued inside one transaction. Reuse of a rotated
// token surfaces as ErrRefreshTokenRevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, tokenID, err := auth.ParseRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	record, err := s.repomanager.RefreshTokens(s.db).GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if record.RevokedAt != nil {
		return nil, common.ErrRefreshTokenRevoked
	}
	if record.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}
	if record.TokenHash != auth.HashToken(refreshToken) || record.UserID != userID {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Revoke(ctx, tokenID, time.Now()); err != nil {
			if errors.Is(err, common.ErrConflict) {
				return common.ErrRefreshTokenRevoked
			}
			return err
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Me returns the authenticated user's record.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(user.ID, user.GlobalRole, s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, common.ErrInternal
	}

	tokenID := "rt_" + uuid.NewString()
	refresh, err := auth.GenerateRefreshToken(user.ID, tokenID, s.jwtSecret, s.refreshTTL)
	if err != nil {
		return nil, common.ErrInternal
	}

	if err := s.repomanager.RefreshTokens(tx).Create(ctx, &models.RefreshToken{
		ID:        tokenID,
		UserID:    user.ID,
		TokenHash: auth.HashToken(refresh),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
