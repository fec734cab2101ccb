package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskType tags a sync task with the operation it performs.
type TaskType string

const (
	TaskCreateEntry     TaskType = "create_entry"
	TaskCreateArtifact  TaskType = "create_artifact"
	TaskUploadArtifact  TaskType = "upload_artifact"
	TaskConfirmArtifact TaskType = "confirm_artifact"
	TaskSubmitEntry     TaskType = "submit_entry"
	TaskDeleteEntry     TaskType = "delete_entry"
	TaskPostFeedback    TaskType = "post_feedback"
)

// TaskPayload is the closed set of payload variants. Each task type
// carries exactly one payload struct; executors switch on the concrete
// type rather than digging fields out of a map.
type TaskPayload interface {
	taskType() TaskType
}

type CreateEntryPayload struct {
	EntryID string `json:"entryId"`
}

type CreateArtifactPayload struct {
	ArtifactID string `json:"artifactId"`
}

type UploadArtifactPayload struct {
	ArtifactID string `json:"artifactId"`
}

type ConfirmArtifactPayload struct {
	ArtifactID string `json:"artifactId"`
}

type SubmitEntryPayload struct {
	EntryID string `json:"entryId"`
}

type DeleteEntryPayload struct {
	EntryID string `json:"entryId"`
}

type PostFeedbackPayload struct {
	FeedbackID string `json:"feedbackId"`
}

func (CreateEntryPayload) taskType() TaskType     { return TaskCreateEntry }
func (CreateArtifactPayload) taskType() TaskType  { return TaskCreateArtifact }
func (UploadArtifactPayload) taskType() TaskType  { return TaskUploadArtifact }
func (ConfirmArtifactPayload) taskType() TaskType { return TaskConfirmArtifact }
func (SubmitEntryPayload) taskType() TaskType     { return TaskSubmitEntry }
func (DeleteEntryPayload) taskType() TaskType     { return TaskDeleteEntry }
func (PostFeedbackPayload) taskType() TaskType    { return TaskPostFeedback }

// TypeOf reports the task type a payload belongs to.
func TypeOf(p TaskPayload) TaskType {
	return p.taskType()
}

// SyncTask is one row of the durable queue. RetryCount counts recorded
// failures; NextAttemptAt is nil until the first failure.
type SyncTask struct {
	ID            int64
	Type          TaskType
	Payload       TaskPayload
	RetryCount    int
	NextAttemptAt *time.Time
	LastError     *string
	CreatedAt     time.Time
}

// EncodePayload serializes a payload for storage alongside its type tag.
func EncodePayload(p TaskPayload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", p.taskType(), err)
	}
	return data, nil
}

// DecodePayload restores the typed payload for a stored task row.
func DecodePayload(t TaskType, data []byte) (TaskPayload, error) {
	var (
		p   TaskPayload
		err error
	)
	switch t {
	case TaskCreateEntry:
		v := CreateEntryPayload{}
		err = json.Unmarshal(data, &v)
		p = v
	case TaskCreateArtifact:
		v := CreateArtifactPayload{}
		err = json.Unmarshal(data, &v)
		p = v
	case TaskUploadArtifact:
		v := UploadArtifactPayload{}
		err = json.Unmarshal(data, &v)
		p = v
	case TaskConfirmArtifact:
		v := ConfirmArtifactPayload{}
		err = json.Unmarshal(data, &v)
		p = v
	case TaskSubmitEntry:
		v := SubmitEntryPayload{}
		err = json.Unmarshal(data, &v)
		p = v
	case TaskDeleteEntry:
		v := DeleteEntryPayload{}
		err = json.Unmarshal(data, &v)
		p = v
	case TaskPostFeedback:
		v := PostFeedbackPayload{}
		err = json.Unmarshal(data, &v)
		p = v
	default:
		return nil, fmt.Errorf("unknown task type: %s", t)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", t, err)
	}
	return p, nil
}
