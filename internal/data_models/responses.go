package dto

import (
	"time"

	"task-board-system.com/task-board-system/internal/constants"
	model "task-board-system.com/task-board-system/internal/models"
	"task-board-system.com/task-board-system/internal/status"
)

// TaskResponse is the UI-facing task shape. Status carries the UI
// vocabulary; storage values never leave the core.
type TaskResponse struct {
	ID              string             `json:"id"`
	ProjectID       string             `json:"project_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Status          constants.UIStatus `json:"status"`
	AssignedTo      string             `json:"assigned_to"`
	FocusToday      bool               `json:"focus_today"`
	FocusUserID     string             `json:"focus_user_id,omitempty"`
	FocusDate       *time.Time         `json:"focus_date,omitempty"`
	CompletionNotes string             `json:"completion_notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func NewTaskResponse(task model.Task) TaskResponse {
	return TaskResponse{
		ID:              task.ID,
		ProjectID:       task.ProjectID,
		Title:           task.Title,
		Description:     task.Description,
		Status:          status.ToUI(task.Status),
		AssignedTo:      task.AssignedTo,
		FocusToday:      task.FocusToday,
		FocusUserID:     task.FocusUserID,
		FocusDate:       task.FocusDate,
		CompletionNotes: task.CompletionNotes,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}

func NewTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

// FocusGroupResponse is one member's slice of a team focus view.
type FocusGroupResponse struct {
	UserID string         `json:"user_id"`
	Tasks  []TaskResponse `json:"tasks"`
}
