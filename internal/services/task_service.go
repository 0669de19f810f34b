package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"task-board-system.com/task-board-system/internal/constants"
	apperrors "task-board-system.com/task-board-system/internal/errors"
	"task-board-system.com/task-board-system/internal/events"
	model "task-board-system.com/task-board-system/internal/models"
	repository "task-board-system.com/task-board-system/internal/repositories"
	"task-board-system.com/task-board-system/internal/status"
)

type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	queue    events.Queue
}

func NewTaskService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	queue events.Queue,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		queue:    queue,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string // free-form, normalized through the codec
	AssignedTo  string
}

type UpdateTaskInput struct {
	Title           *string
	Description     *string
	Status          *string
	AssignedTo      *string
	CompletionNotes *string
}

// UserFocus groups one member's focus tasks for a team focus view.
type UserFocus struct {
	UserID string       `json:"user_id"`
	Tasks  []model.Task `json:"tasks"`
}

func (s *TaskService) CreateTask(ctx context.Context, projectID, actorID string, in CreateTaskInput) (*model.Task, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	st := constants.StatusTodo
	if in.Status != "" {
		st = status.Normalize(in.Status)
	}

	assignee := in.AssignedTo
	if assignee == "" {
		assignee = project.UserID
	}

	task := &model.Task{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      st,
		AssignedTo:  assignee,
	}

	// A task born directly into active enters the creator's focus the
	// same way a transition into active would.
	if st == constants.StatusActive {
		activateFocus(task, actorID)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	publish(ctx, s.queue, events.Event{
		Type:       events.TaskCreated,
		ActorID:    actorID,
		ProjectID:  projectID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: task.AssignedTo,
	})

	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID string, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.findProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	prevStatus := task.Status
	prevAssignee := task.AssignedTo
	contentChanged := false

	if in.Title != nil && *in.Title != task.Title {
		task.Title = *in.Title
		contentChanged = true
	}
	if in.Description != nil && *in.Description != task.Description {
		task.Description = *in.Description
		contentChanged = true
	}
	if in.CompletionNotes != nil && *in.CompletionNotes != task.CompletionNotes {
		task.CompletionNotes = *in.CompletionNotes
		contentChanged = true
	}

	if in.AssignedTo != nil {
		next := *in.AssignedTo
		if next == "" {
			// Clearing the assignee falls back to the project owner.
			next = project.UserID
		}
		// Reassignment never touches focus state.
		task.AssignedTo = next
	}

	if in.Status != nil {
		next := status.Normalize(*in.Status)
		if next != prevStatus {
			// Entering active pulls the task into the actor's focus for
			// today. Leaving active never removes focus: only an
			// explicit toggle does.
			if next == constants.StatusActive && !task.FocusToday {
				activateFocus(task, actorID)
			}
			task.Status = next
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	base := events.Event{
		ActorID:    actorID,
		ProjectID:  task.ProjectID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: task.AssignedTo,
	}

	if task.Status != prevStatus {
		ev := base
		if task.Status == constants.StatusDone {
			ev.Type = events.TaskCompleted
		} else {
			ev.Type = events.TaskStatusChanged
		}
		publish(ctx, s.queue, ev)
	} else if contentChanged {
		ev := base
		ev.Type = events.TaskUpdated
		publish(ctx, s.queue, ev)
	}

	if task.AssignedTo != prevAssignee {
		ev := base
		ev.Type = events.TaskAssigned
		publish(ctx, s.queue, ev)
	}

	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}

	project, err := s.findProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return err
	}

	publish(ctx, s.queue, events.Event{
		Type:       events.TaskDeleted,
		ActorID:    actorID,
		ProjectID:  task.ProjectID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: task.AssignedTo,
	})

	return nil
}

// ToggleFocus flips the per-day focus marker. Toggling on stamps the
// actor and today's date; toggling off clears both. Double toggle is
// the identity.
func (s *TaskService) ToggleFocus(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.findProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	if task.FocusToday {
		clearFocus(task)
	} else {
		activateFocus(task, actorID)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.findProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, projectID, actorID string) ([]model.Task, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	return s.tasks.ListByProject(ctx, projectID)
}

// FocusMine lists the actor's focus tasks for today. Yesterday's focus
// is filtered out by date alone; no job ever resets the flag.
func (s *TaskService) FocusMine(ctx context.Context, projectID, actorID string) ([]model.Task, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	return s.tasks.FocusForUser(ctx, projectID, actorID, today())
}

// FocusTeam lists today's focus tasks across the whole project, grouped
// by the user who set them.
func (s *TaskService) FocusTeam(ctx context.Context, projectID, actorID string) ([]UserFocus, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	rows, err := s.tasks.FocusForProject(ctx, projectID, today())
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.Task)
	var order []string
	for _, t := range rows {
		if _, seen := grouped[t.FocusUserID]; !seen {
			order = append(order, t.FocusUserID)
		}
		grouped[t.FocusUserID] = append(grouped[t.FocusUserID], t)
	}

	focus := make([]UserFocus, 0, len(order))
	for _, userID := range order {
		focus = append(focus, UserFocus{UserID: userID, Tasks: grouped[userID]})
	}
	return focus, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) findProject(ctx context.Context, projectID string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func activateFocus(task *model.Task, userID string) {
	day := today()
	task.FocusToday = true
	task.FocusUserID = userID
	task.FocusDate = &day
}

func clearFocus(task *model.Task) {
	task.FocusToday = false
	task.FocusUserID = ""
	task.FocusDate = nil
}
