package api

import "time"

// Wire types mirror the Remote API JSON bodies.

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	GlobalRole  string `json:"globalRole"`
}

type SessionResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Course struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	RoleInCourse string `json:"roleInCourse"`
}

type Entry struct {
	ID              string     `json:"id"`
	CourseID        string     `json:"courseId"`
	StudentID       string     `json:"studentId"`
	PracticeDate    time.Time  `json:"practiceDate"`
	GoalText        string     `json:"goalText"`
	DurationSeconds *int       `json:"durationSeconds"`
	Tags            []string   `json:"tags"`
	Notes           *string    `json:"notes"`
	Status          string     `json:"status"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
}

type Artifact struct {
	ID              string  `json:"id"`
	EntryID         string  `json:"entryId"`
	Type            string  `json:"type"`
	DurationSeconds int     `json:"durationSeconds"`
	UploadState     string  `json:"uploadState"`
	StorageKey      *string `json:"storageKey"`
	RemoteURL       *string `json:"remoteUrl"`
}

type Presign struct {
	UploadURL        string `json:"uploadUrl"`
	StorageKey       string `json:"storageKey"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

type Marker struct {
	ID          string  `json:"id"`
	TimeSeconds float64 `json:"timeSeconds"`
	Text        string  `json:"text"`
}

type Feedback struct {
	ID           string    `json:"id"`
	TargetType   string    `json:"targetType"`
	TargetID     string    `json:"targetId"`
	TeacherID    string    `json:"teacherId"`
	TeacherName  string    `json:"teacherName"`
	Status       string    `json:"status"`
	CommentsText string    `json:"commentsText"`
	Markers      []Marker  `json:"markers"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ReviewEntry struct {
	Entry
	StudentName string     `json:"studentName"`
	Artifacts   []Artifact `json:"artifacts"`
}

type CreateEntryRequest struct {
	ID              string    `json:"id"`
	PracticeDate    time.Time `json:"practiceDate"`
	GoalText        string    `json:"goalText"`
	DurationSeconds *int      `json:"durationSeconds,omitempty"`
	Tags            []string  `json:"tags"`
	Notes           *string   `json:"notes,omitempty"`
}

type PatchEntryRequest struct {
	GoalText        *string    `json:"goalText,omitempty"`
	PracticeDate    *time.Time `json:"practiceDate,omitempty"`
	DurationSeconds *int       `json:"durationSeconds,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

type CreateArtifactRequest struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	DurationSeconds int    `json:"durationSeconds"`
}

type PostFeedbackRequest struct {
	ID           string   `json:"id"`
	TargetType   string   `json:"targetType"`
	TargetID     string   `json:"targetId"`
	Status       string   `json:"status"`
	CommentsText string   `json:"commentsText"`
	Markers      []Marker `json:"markers"`
}
