// Package models defines the local replica rows and the sync task types
// persisted by the client.
package models

import "time"

// Wire values shared with the server.
const (
	EntryStatusDraft     = "draft"
	EntryStatusSubmitted = "submitted"

	UploadStatePending   = "pending"
	UploadStateUploading = "uploading"
	UploadStateUploaded  = "uploaded"
	UploadStateFailed    = "failed"

	ArtifactTypeAudio = "audio"
	ArtifactTypeVideo = "video"

	FeedbackTargetEntry    = "entry"
	FeedbackTargetArtifact = "artifact"

	FeedbackStatusOK            = "ok"
	FeedbackStatusNeedsRevision = "needs_revision"
	FeedbackStatusNextGoal      = "next_goal"
)

type Course struct {
	ID           string
	Title        string
	RoleInCourse string
}

// Entry is the local copy of a practice journal entry. Synced reports
// whether the row has been accepted by the server at least once; Deleted
// marks a tombstone awaiting a successful DeleteEntry task.
type Entry struct {
	ID              string
	CourseID        string
	PracticeDate    time.Time
	GoalText        string
	DurationSeconds *int
	Tags            []string
	Notes           *string
	Status          string
	UpdatedAt       time.Time
	Synced          bool
	Deleted         bool
}

// Artifact is the local copy of a media attachment. LocalPath points at
// the recording on disk; it is what UploadArtifact streams to the
// presigned URL.
type Artifact struct {
	ID              string
	EntryID         string
	Type            string
	DurationSeconds int
	UploadState     string
	StorageKey      *string
	RemoteURL       *string
	LocalPath       string
	Synced          bool
}

type Feedback struct {
	ID           string
	TargetType   string
	TargetID     string
	TeacherID    string
	TeacherName  string
	Status       string
	CommentsText string
	CreatedAt    time.Time
	Synced       bool
	Markers      []*Marker
}

type Marker struct {
	ID          string
	FeedbackID  string
	TimeSeconds float64
	Text        string
}
