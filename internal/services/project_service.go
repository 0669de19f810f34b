package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "task-board-system.com/task-board-system/internal/errors"
	"task-board-system.com/task-board-system/internal/events"
	model "task-board-system.com/task-board-system/internal/models"
	repository "task-board-system.com/task-board-system/internal/repositories"
)

type ProjectService struct {
	projects    *repository.ProjectRepository
	tasks       *repository.TaskRepository
	notes       *repository.NoteRepository
	attachments *repository.AttachmentRepository
	queue       events.Queue
}

func NewProjectService(
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	notes *repository.NoteRepository,
	attachments *repository.AttachmentRepository,
	queue events.Queue,
) *ProjectService {
	return &ProjectService{
		projects:    projects,
		tasks:       tasks,
		notes:       notes,
		attachments: attachments,
		queue:       queue,
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, actorID, name, description string) (*model.Project, error) {
	return s.projects.Create(ctx, actorID, name, description)
}

func (s *ProjectService) GetProject(ctx context.Context, projectID, actorID string) (*model.Project, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Members(ctx context.Context, projectID, actorID string) ([]model.ProjectMember, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}
	return s.projects.Members(ctx, projectID)
}

func (s *ProjectService) AddMember(ctx context.Context, projectID, actorID, userID string) (*model.ProjectMember, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	member, err := s.projects.AddMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateMember) {
			return nil, apperrors.ErrMemberExists
		}
		return nil, err
	}

	publish(ctx, s.queue, events.Event{
		Type:          events.MemberAdded,
		ActorID:       actorID,
		ProjectID:     projectID,
		SubjectUserID: userID,
	})

	return member, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, actorID, userID string) error {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return err
	}

	if err := s.projects.RemoveMember(ctx, projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return err
	}

	publish(ctx, s.queue, events.Event{
		Type:          events.MemberRemoved,
		ActorID:       actorID,
		ProjectID:     projectID,
		SubjectUserID: userID,
	})

	return nil
}

func (s *ProjectService) CreateNote(ctx context.Context, projectID, actorID, content string) (*model.Note, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}
	return s.notes.Create(ctx, projectID, actorID, content)
}

func (s *ProjectService) ListNotes(ctx context.Context, projectID, actorID string) ([]model.Note, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}
	return s.notes.ListByProject(ctx, projectID)
}

// AddProjectAttachment records project-scoped file metadata and fans
// out a file_uploaded event to the project audience.
func (s *ProjectService) AddProjectAttachment(ctx context.Context, projectID, actorID, fileName string) (*model.Attachment, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	attachment, err := s.attachments.Create(ctx, projectID, nil, fileName, actorID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.queue, events.Event{
		Type:      events.FileUploaded,
		ActorID:   actorID,
		ProjectID: projectID,
		FileName:  fileName,
	})

	return attachment, nil
}

// AddTaskAttachment records task-scoped file metadata; the task's
// assignee joins the fan-out audience.
func (s *ProjectService) AddTaskAttachment(ctx context.Context, taskID, actorID, fileName string) (*model.Attachment, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	project, err := s.findProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authorizeProject(ctx, s.projects, project, actorID); err != nil {
		return nil, err
	}

	attachment, err := s.attachments.Create(ctx, task.ProjectID, &task.ID, fileName, actorID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.queue, events.Event{
		Type:       events.FileUploaded,
		ActorID:    actorID,
		ProjectID:  task.ProjectID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: task.AssignedTo,
		FileName:   fileName,
	})

	return attachment, nil
}

func (s *ProjectService) findProject(ctx context.Context, projectID string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}
