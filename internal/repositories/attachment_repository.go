package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "task-board-system.com/task-board-system/internal/models"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, projectID string, taskID *string, fileName, uploadedBy string) (*model.Attachment, error) {
	attachment := &model.Attachment{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		TaskID:     taskID,
		FileName:   fileName,
		UploadedBy: uploadedBy,
		CreatedAt:  time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

func (r *AttachmentRepository) ListByProject(ctx context.Context, projectID string) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Find(&attachments).Error
	return attachments, err
}
