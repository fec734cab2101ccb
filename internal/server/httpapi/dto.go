package httpapi

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/resonance-app/resonance/internal/server/models"
)

var validate = validator.New()

// --- requests ---

type sessionRequest struct {
	Code        string `json:"code" validate:"required"`
	RedirectURI string `json:"redirectUri"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type devIssueRequest struct {
	Role string `json:"role" validate:"omitempty,oneof=student teacher"`
}

type createEntryRequest struct {
	ID              string    `json:"id" validate:"required"`
	PracticeDate    time.Time `json:"practiceDate" validate:"required"`
	GoalText        string    `json:"goalText" validate:"required"`
	DurationSeconds *int      `json:"durationSeconds" validate:"omitempty,min=0"`
	Tags            []string  `json:"tags"`
	Notes           *string   `json:"notes"`
}

type patchEntryRequest struct {
	GoalText        *string    `json:"goalText"`
	PracticeDate    *time.Time `json:"practiceDate"`
	DurationSeconds *int       `json:"durationSeconds" validate:"omitempty,min=0"`
	Tags            []string   `json:"tags"`
	Notes           *string    `json:"notes"`
}

type createArtifactRequest struct {
	ID              string `json:"id" validate:"required"`
	Type            string `json:"type" validate:"required,oneof=audio video"`
	DurationSeconds int    `json:"durationSeconds" validate:"min=0"`
}

type markerRequest struct {
	ID          string  `json:"id"`
	TimeSeconds float64 `json:"timeSeconds" validate:"min=0"`
	Text        string  `json:"text" validate:"required"`
}

type postFeedbackRequest struct {
	ID           string          `json:"id"`
	TargetType   string          `json:"targetType" validate:"required,oneof=entry artifact"`
	TargetID     string          `json:"targetId" validate:"required"`
	Status       string          `json:"status" validate:"required,oneof=ok needs_revision next_goal"`
	CommentsText string          `json:"commentsText" validate:"required"`
	Markers      []markerRequest `json:"markers" validate:"dive"`
}

// --- responses ---

type userResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	GlobalRole  string `json:"globalRole"`
}

type sessionResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         userResponse `json:"user"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type courseResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	RoleInCourse string `json:"roleInCourse,omitempty"`
}

type entryResponse struct {
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

type artifactResponse struct {
	ID              string  `json:"id"`
	EntryID         string  `json:"entryId"`
	Type            string  `json:"type"`
	DurationSeconds int     `json:"durationSeconds"`
	UploadState     string  `json:"uploadState"`
	StorageKey      *string `json:"storageKey"`
	RemoteURL       *string `json:"remoteUrl"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	StorageKey       string `json:"storageKey"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

type reviewEntryResponse struct {
	entryResponse
	StudentName string             `json:"studentName"`
	Artifacts   []artifactResponse `json:"artifacts"`
}

type markerResponse struct {
	ID          string  `json:"id"`
	TimeSeconds float64 `json:"timeSeconds"`
	Text        string  `json:"text"`
}

type feedbackResponse struct {
	ID           string           `json:"id"`
	TargetType   string           `json:"targetType"`
	TargetID     string           `json:"targetId"`
	TeacherID    string           `json:"teacherId"`
	TeacherName  string           `json:"teacherName,omitempty"`
	Status       string           `json:"status"`
	CommentsText string           `json:"commentsText"`
	Markers      []markerResponse `json:"markers"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// --- converters ---

func toEntryResponse(e *models.Entry) entryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return entryResponse{
		ID:              e.ID,
		CourseID:        e.CourseID,
		StudentID:       e.StudentID,
		PracticeDate:    e.PracticeDate,
		GoalText:        e.GoalText,
		DurationSeconds: e.DurationSeconds,
		Tags:            tags,
		Notes:           e.Notes,
		Status:          e.Status,
		UpdatedAt:       e.UpdatedAt,
		DeletedAt:       e.DeletedAt,
	}
}

func toArtifactResponse(a *models.Artifact) artifactResponse {
	return artifactResponse{
		ID:              a.ID,
		EntryID:         a.EntryID,
		Type:            a.Type,
		DurationSeconds: a.DurationSeconds,
		UploadState:     a.UploadState,
		StorageKey:      a.StorageKey,
		RemoteURL:       a.RemoteURL,
	}
}

func toFeedbackResponse(fb *models.Feedback) feedbackResponse {
	markers := make([]markerResponse, 0, len(fb.Markers))
	for _, m := range fb.Markers {
		markers = append(markers, markerResponse{ID: m.ID, TimeSeconds: m.TimeSeconds, Text: m.Text})
	}
	return feedbackResponse{
		ID:           fb.ID,
		TargetType:   fb.TargetType,
		TargetID:     fb.TargetID,
		TeacherID:    fb.TeacherID,
		TeacherName:  fb.TeacherName,
		Status:       fb.Status,
		CommentsText: fb.CommentsText,
		Markers:      markers,
		CreatedAt:    fb.CreatedAt,
	}
}
