// Package events defines the domain events emitted after primary
// writes and the queue they travel through on their way to the
// notification fan-out dispatcher.
package events

import "time"

type EventType string

const (
	TaskCreated       EventType = "task_created"
	TaskUpdated       EventType = "task_updated"
	TaskStatusChanged EventType = "task_status_changed"
	TaskCompleted     EventType = "task_completed"
	TaskDeleted       EventType = "task_deleted"
	TaskAssigned      EventType = "task_assigned"
	MemberAdded       EventType = "member_added"
	MemberRemoved     EventType = "member_removed"
	FileUploaded      EventType = "file_uploaded"
)

// Event carries everything the fan-out engine needs to compute a
// recipient set without re-reading the mutated row (which may already
// be gone, e.g. for deletions).
type Event struct {
	Type      EventType `json:"type"`
	ActorID   string    `json:"actor_id"`
	ProjectID string    `json:"project_id"`

	TaskID     string `json:"task_id,omitempty"`
	TaskTitle  string `json:"task_title,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty"`

	// SubjectUserID is the added or removed member for membership events.
	SubjectUserID string `json:"subject_user_id,omitempty"`

	FileName string `json:"file_name,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}
