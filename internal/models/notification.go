package model

import (
	"time"

	"task-board-system.com/task-board-system/internal/constants"
)

type Notification struct {
	ID        string                     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string                     `gorm:"size:36;index;not null" json:"user_id"`
	Type      constants.NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title     string                     `gorm:"not null" json:"title"`
	Message   string                     `json:"message"`
	Read      bool                       `gorm:"not null;default:false" json:"read"`
	Metadata  string                     `json:"metadata"` // JSON payload for client-side deep-linking (project_id, task_id)
	CreatedAt time.Time                  `json:"created_at"`
}
