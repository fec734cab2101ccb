package models

import "time"

// Entry statuses. The draft -> submitted transition happens exactly once.
const (
	EntryStatusDraft     = "draft"
	EntryStatusSubmitted = "submitted"
)

// Entry is a practice record owned by its creating student.
type Entry struct {
	ID              string
	CourseID        string
	StudentID       string
	PracticeDate    time.Time
	GoalText        string
	DurationSeconds *int
	Tags            []string
	Notes           *string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// EntryPatch carries the updatable entry fields. Nil means "leave unchanged".
type EntryPatch struct {
	GoalText        *string
	PracticeDate    *time.Time
	DurationSeconds *int
	Tags            []string
	Notes           *string
}

// TouchesLockedFields reports whether the patch modifies fields that become
// immutable once the entry is submitted.
func (p *EntryPatch) TouchesLockedFields() bool {
	return p.GoalText != nil || p.PracticeDate != nil || p.DurationSeconds != nil || p.Tags != nil
}

// EntryWithArtifacts is the review-queue projection: a submitted entry, the
// student's display name and all artifacts.
type EntryWithArtifacts struct {
	Entry
	StudentName string
	Artifacts   []*Artifact
}
