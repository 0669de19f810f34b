package model

import (
	"time"

	"task-board-system.com/task-board-system/internal/constants"
)

type Task struct {
	ID              string                  `gorm:"primaryKey;size:36" json:"id"`
	ProjectID       string                  `gorm:"size:36;index;not null" json:"project_id"`
	Title           string                  `gorm:"not null" json:"title"`
	Description     string                  `json:"description"`
	Status          constants.StorageStatus `gorm:"type:varchar(20);not null" json:"status"`
	AssignedTo      string                  `gorm:"size:36;index" json:"assigned_to"`
	FocusToday      bool                    `gorm:"not null;default:false" json:"focus_today"`
	FocusUserID     string                  `gorm:"size:36" json:"focus_user_id,omitempty"`
	FocusDate       *time.Time              `json:"focus_date,omitempty"`
	CompletionNotes string                  `json:"completion_notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}
