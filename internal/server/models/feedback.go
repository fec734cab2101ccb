package models

import "time"

// Feedback target types and statuses.
const (
	FeedbackTargetEntry    = "entry"
	FeedbackTargetArtifact = "artifact"

	FeedbackStatusOK            = "ok"
	FeedbackStatusNeedsRevision = "needs_revision"
	FeedbackStatusNextGoal      = "next_goal"
)

// Feedback is created only by a teacher with course membership and is
// immutable once created.
type Feedback struct {
	ID           string
	TargetType   string
	TargetID     string
	TeacherID    string
	TeacherName  string
	Status       string
	CommentsText string
	Markers      []*Marker
	CreatedAt    time.Time
}

// Marker is owned exclusively by one Feedback and deleted only with it.
type Marker struct {
	ID          string
	FeedbackID  string
	TimeSeconds float64
	Text        string
}
