package model

import (
	"time"

	"task-board-system.com/task-board-system/internal/constants"
)

type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index;not null" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectMember is a user's membership row within a project. The owner
// is implicit on Project.UserID and never stored here.
type ProjectMember struct {
	ID        string               `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string               `gorm:"size:36;uniqueIndex:idx_project_user;not null" json:"project_id"`
	UserID    string               `gorm:"size:36;uniqueIndex:idx_project_user;not null" json:"user_id"`
	Role      constants.MemberRole `gorm:"type:varchar(20);not null;default:member" json:"role"`
	CreatedAt time.Time            `json:"created_at"`
}
