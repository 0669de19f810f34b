package services

import (
	"context"
	"log"
	"time"

	apperrors "task-board-system.com/task-board-system/internal/errors"
	"task-board-system.com/task-board-system/internal/events"
	model "task-board-system.com/task-board-system/internal/models"
	repository "task-board-system.com/task-board-system/internal/repositories"
)

// authorizeProject answers whether userID may read or mutate the
// project. Access requires ownership or a member row; there is no
// per-operation permission split.
func authorizeProject(ctx context.Context, projects *repository.ProjectRepository, project *model.Project, userID string) error {
	if project.UserID == userID {
		return nil
	}

	ok, err := projects.IsMember(ctx, project.ID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotAuthorized
	}
	return nil
}

// publish hands an event to the queue after the primary write has
// committed. Publish failures are logged and dropped: fan-out must
// never fail the mutation that triggered it.
func publish(ctx context.Context, queue events.Queue, ev events.Event) {
	ev.OccurredAt = time.Now().UTC()

	if err := queue.Publish(ctx, ev); err != nil {
		log.Printf("events: dropping %s event for project %s: %v", ev.Type, ev.ProjectID, err)
	}
}

// today returns the current UTC calendar day at midnight. Focus dates
// are always stored at this granularity so equality filters work.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
