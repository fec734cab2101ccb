package models

import "time"

// Artifact upload states. The server flips to uploaded only after it has
// verified the object exists in the backing store.
const (
	UploadStatePending   = "pending"
	UploadStateUploading = "uploading"
	UploadStateUploaded  = "uploaded"
	UploadStateFailed    = "failed"
)

// Artifact media types.
const (
	ArtifactTypeAudio = "audio"
	ArtifactTypeVideo = "video"
)

// Artifact is a media recording owned by an Entry. StorageKey is assigned
// once at first presign and is stable thereafter.
type Artifact struct {
	ID              string
	EntryID         string
	Type            string
	DurationSeconds int
	UploadState     string
	StorageKey      *string
	RemoteURL       *string
	CreatedAt       time.Time
}
