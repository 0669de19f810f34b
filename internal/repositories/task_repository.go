package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-system.com/task-board-system/internal/constants"
	model "task-board-system.com/task-board-system/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	task.ID = uuid.NewString()
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt

	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

// Update writes every mutable field. Last write wins: there is no
// version column, a concurrent writer's update is silently superseded.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":            task.Title,
			"description":      task.Description,
			"status":           task.Status,
			"assigned_to":      task.AssignedTo,
			"focus_today":      task.FocusToday,
			"focus_user_id":    task.FocusUserID,
			"focus_date":       task.FocusDate,
			"completion_notes": task.CompletionNotes,
			"updated_at":       task.UpdatedAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountUnfinished reports how many tasks in the project are not done
// yet. Zero means the project is complete.
func (r *TaskRepository) CountUnfinished(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("project_id = ? AND status != ?", projectID, constants.StatusDone).
		Count(&count).Error
	return count, err
}

// FocusForUser lists the tasks a user marked as focus for the given
// day. Focus set on a prior day is excluded by the date filter alone;
// the focus_today flag is never reset by a job.
func (r *TaskRepository) FocusForUser(ctx context.Context, projectID, userID string, day time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND focus_today = ? AND focus_user_id = ? AND focus_date = ?",
			projectID, true, userID, day).
		Order("created_at asc").
		Find(&tasks).Error
	return tasks, err
}

// FocusForProject lists every member's focus tasks for the given day.
func (r *TaskRepository) FocusForProject(ctx context.Context, projectID string, day time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND focus_today = ? AND focus_date = ?", projectID, true, day).
		Order("focus_user_id asc, created_at asc").
		Find(&tasks).Error
	return tasks, err
}
