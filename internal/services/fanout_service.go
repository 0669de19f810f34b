package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"task-board-system.com/task-board-system/internal/constants"
	"task-board-system.com/task-board-system/internal/events"
	model "task-board-system.com/task-board-system/internal/models"
	repository "task-board-system.com/task-board-system/internal/repositories"
)

// FanoutService turns one domain event into one notification row per
// computed recipient. The actor never notifies themselves, and a user
// reachable through several rules (assignee and member, say) gets
// exactly one row carrying the most specific rule's message.
type FanoutService struct {
	tasks         *repository.TaskRepository
	projects      *repository.ProjectRepository
	notifications *repository.NotificationRepository
}

func NewFanoutService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	notifications *repository.NotificationRepository,
) *FanoutService {
	return &FanoutService{
		tasks:         tasks,
		projects:      projects,
		notifications: notifications,
	}
}

// draft is a pending notification for one recipient. Later, more
// specific rules overwrite earlier general ones in the recipient map.
type draft struct {
	Type    constants.NotificationType
	Title   string
	Message string
}

func (s *FanoutService) Deliver(ctx context.Context, ev events.Event) error {
	project, err := s.projects.FindByID(ctx, ev.ProjectID)
	if err != nil {
		return fmt.Errorf("fanout: load project %s: %w", ev.ProjectID, err)
	}

	members, err := s.projects.Members(ctx, ev.ProjectID)
	if err != nil {
		return fmt.Errorf("fanout: load members of %s: %w", ev.ProjectID, err)
	}

	audience := make([]string, 0, len(members)+1)
	audience = append(audience, project.UserID)
	for _, m := range members {
		audience = append(audience, m.UserID)
	}

	recipients := make(map[string]draft)
	addAudience := func(d draft, exclude ...string) {
	next:
		for _, userID := range audience {
			if userID == ev.ActorID {
				continue
			}
			for _, ex := range exclude {
				if userID == ex {
					continue next
				}
			}
			recipients[userID] = d
		}
	}
	addUser := func(userID string, d draft) {
		if userID == "" || userID == ev.ActorID {
			return
		}
		recipients[userID] = d
	}

	switch ev.Type {
	case events.TaskCreated:
		addAudience(draft{
			Type:    constants.NotificationTaskCreated,
			Title:   "New task",
			Message: fmt.Sprintf("Task %q was created", ev.TaskTitle),
		})
		addUser(ev.AssigneeID, draft{
			Type:    constants.NotificationTaskAssigned,
			Title:   "Task assigned to you",
			Message: fmt.Sprintf("You were assigned the new task %q", ev.TaskTitle),
		})

	case events.TaskCompleted:
		addAudience(draft{
			Type:    constants.NotificationTaskCompleted,
			Title:   "Task completed",
			Message: fmt.Sprintf("Task %q was completed", ev.TaskTitle),
		})
		addUser(ev.AssigneeID, draft{
			Type:    constants.NotificationTaskCompleted,
			Title:   "Task completed",
			Message: fmt.Sprintf("Your task %q was completed", ev.TaskTitle),
		})

	case events.TaskStatusChanged:
		addUser(ev.AssigneeID, draft{
			Type:    constants.NotificationStatusChanged,
			Title:   "Task status changed",
			Message: fmt.Sprintf("The status of your task %q changed", ev.TaskTitle),
		})

	case events.TaskUpdated:
		addUser(ev.AssigneeID, draft{
			Type:    constants.NotificationTaskUpdated,
			Title:   "Task updated",
			Message: fmt.Sprintf("Your task %q was edited", ev.TaskTitle),
		})

	case events.TaskAssigned:
		addUser(ev.AssigneeID, draft{
			Type:    constants.NotificationTaskAssigned,
			Title:   "Task assigned to you",
			Message: fmt.Sprintf("You were assigned the task %q", ev.TaskTitle),
		})

	case events.TaskDeleted:
		addUser(ev.AssigneeID, draft{
			Type:    constants.NotificationTaskDeleted,
			Title:   "Task deleted",
			Message: fmt.Sprintf("Your task %q was deleted", ev.TaskTitle),
		})

	case events.MemberAdded:
		addAudience(draft{
			Type:    constants.NotificationNewMemberJoined,
			Title:   "New project member",
			Message: fmt.Sprintf("A new member joined %q", project.Name),
		}, ev.SubjectUserID)
		addUser(ev.SubjectUserID, draft{
			Type:    constants.NotificationProjectInvite,
			Title:   "Added to project",
			Message: fmt.Sprintf("You were added to the project %q", project.Name),
		})

	case events.MemberRemoved:
		// Self-removal is silent.
		addUser(ev.SubjectUserID, draft{
			Type:    constants.NotificationProjectRemoved,
			Title:   "Removed from project",
			Message: fmt.Sprintf("You were removed from the project %q", project.Name),
		})

	case events.FileUploaded:
		addAudience(draft{
			Type:    constants.NotificationFileUploaded,
			Title:   "File uploaded",
			Message: fmt.Sprintf("File %q was uploaded to %q", ev.FileName, project.Name),
		})
		if ev.TaskID != "" {
			addUser(ev.AssigneeID, draft{
				Type:    constants.NotificationFileUploaded,
				Title:   "File uploaded",
				Message: fmt.Sprintf("File %q was attached to your task %q", ev.FileName, ev.TaskTitle),
			})
		}

	default:
		log.Printf("fanout: unknown event type %q, dropping", ev.Type)
		return nil
	}

	s.persist(ctx, ev, recipients)

	// Completing the last open task additionally announces the whole
	// project as done, to the owner and every member.
	if ev.Type == events.TaskCompleted {
		unfinished, err := s.tasks.CountUnfinished(ctx, ev.ProjectID)
		if err != nil {
			return fmt.Errorf("fanout: count unfinished in %s: %w", ev.ProjectID, err)
		}
		if unfinished == 0 {
			completed := make(map[string]draft)
			for _, userID := range audience {
				if userID == ev.ActorID {
					continue
				}
				completed[userID] = draft{
					Type:    constants.NotificationProjectCompleted,
					Title:   "Project completed",
					Message: fmt.Sprintf("Every task in %q is done", project.Name),
				}
			}
			s.persist(ctx, ev, completed)
		}
	}

	return nil
}

// persist writes one row per recipient. Row-level failures are logged
// and skipped; fan-out is best effort.
func (s *FanoutService) persist(ctx context.Context, ev events.Event, recipients map[string]draft) {
	metadata := deepLink(ev)

	for userID, d := range recipients {
		n := &model.Notification{
			UserID:   userID,
			Type:     d.Type,
			Title:    d.Title,
			Message:  d.Message,
			Metadata: metadata,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			log.Printf("fanout: failed to persist %s notification for user %s: %v", d.Type, userID, err)
		}
	}
}

// deepLink builds the opaque metadata payload clients use to navigate
// from a notification to the entity it concerns.
func deepLink(ev events.Event) string {
	payload := map[string]string{"project_id": ev.ProjectID}
	if ev.TaskID != "" {
		payload["task_id"] = ev.TaskID
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(raw)
}
