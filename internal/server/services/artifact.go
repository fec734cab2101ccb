package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/logging"
	"github.com/resonance-app/resonance/internal/server/models"
	"github.com/resonance-app/resonance/internal/server/repositories/repomanager"
	"github.com/resonance-app/resonance/internal/server/storage"
)

// PresignResult is returned by Presign: a time-limited direct-write URL for
// the artifact's stable storage key.
type PresignResult struct {
	UploadURL        string
	StorageKey       string
	ExpiresInSeconds int
}

// ArtifactService drives the artifact state machine:
// pending -> uploading (presign) -> uploaded (confirm after a store probe),
// with failed reachable from any non-terminal state.
type ArtifactService struct {
	authz
	store  storage.ObjectStore
	logger logging.Logger
}

func NewArtifactService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, logger logging.Logger) *ArtifactService {
	return &ArtifactService{
		authz:  authz{db: db, repomanager: m},
		store:  store,
		logger: logger,
	}
}

// Create registers a pending artifact under an entry the caller owns, keyed
// by the client-supplied id.
func (s *ArtifactService) Create(ctx context.Context, user AuthUser, entryID string, artifact *models.Artifact) (*models.Artifact, error) {
	entry, err := s.entryAccess(ctx, user, entryID)
	if err != nil {
		return nil, err
	}
	if entry.StudentID != user.ID {
		return nil, fmt.Errorf("%w: only the owning student can add artifacts", common.ErrAccessDenied)
	}

	artifact.EntryID = entryID
	artifact.UploadState = models.UploadStatePending

	if err := s.repomanager.Artifacts(s.db).Create(ctx, artifact); err != nil {
		return nil, err
	}
	return s.repomanager.Artifacts(s.db).GetByID(ctx, artifact.ID)
}

// Presign issues a presigned PUT URL and moves the artifact to uploading.
// The storage key is assigned exactly once: re-presigning reuses the
// existing key, so retried uploads land on the same object.
func (s *ArtifactService) Presign(ctx context.Context, user AuthUser, artifactID string) (*PresignResult, error) {
	artifact, _, err := s.artifactAccess(ctx, user, artifactID)
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("artifacts/%s/%s", artifact.EntryID, artifact.ID)
	if artifact.StorageKey != nil {
		storageKey = *artifact.StorageKey
	}

	contentType := "video/mp4"
	if artifact.Type == models.ArtifactTypeAudio {
		contentType = "audio/m4a"
	}

	url, ttl, err := s.store.PresignPut(ctx, storageKey, contentType)
	if err != nil {
		if ferr := s.repomanager.Artifacts(s.db).SetFailed(ctx, artifactID); ferr != nil {
			s.logger.Warn(ctx, "marking artifact failed", "artifact", artifactID, "error", ferr.Error())
		}
		return nil, err
	}

	if err := s.repomanager.Artifacts(s.db).SetPresigned(ctx, artifactID, storageKey); err != nil {
		return nil, err
	}

	return &PresignResult{
		UploadURL:        url,
		StorageKey:       storageKey,
		ExpiresInSeconds: int(ttl / time.Second),
	}, nil
}

// Confirm verifies the object actually exists in the backing store before
// flipping the artifact to uploaded. Client-side upload completion is never
// trusted without this probe.
func (s *ArtifactService) Confirm(ctx context.Context, user AuthUser, artifactID string) (*models.Artifact, error) {
	artifact, _, err := s.artifactAccess(ctx, user, artifactID)
	if err != nil {
		return nil, err
	}
	if artifact.StorageKey == nil {
		return nil, fmt.Errorf("%w: artifact has no storage key", common.ErrValidation)
	}

	if err := s.store.Head(ctx, *artifact.StorageKey); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: upload not found in storage", common.ErrConflict)
		}
		return nil, err
	}

	if err := s.repomanager.Artifacts(s.db).SetUploaded(ctx, artifactID, s.store.RemoteURL(*artifact.StorageKey)); err != nil {
		return nil, err
	}
	return s.repomanager.Artifacts(s.db).GetByID(ctx, artifactID)
}
