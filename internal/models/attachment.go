package model

import "time"

// Attachment records file metadata only; blob storage lives outside
// this service.
type Attachment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID  string    `gorm:"size:36;index;not null" json:"project_id"`
	TaskID     *string   `gorm:"size:36;index" json:"task_id,omitempty"`
	FileName   string    `gorm:"not null" json:"file_name"`
	UploadedBy string    `gorm:"size:36;not null" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
