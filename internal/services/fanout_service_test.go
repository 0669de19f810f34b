package services

import (
	"context"
	"testing"
	"time"

	"task-board-system.com/task-board-system/internal/constants"
	"task-board-system.com/task-board-system/internal/events"
	model "task-board-system.com/task-board-system/internal/models"
)

type fanoutEnv struct {
	*testEnv
	fanout  *FanoutService
	project *model.Project
}

// setupFanoutEnv builds a project owned by "owner" with members "bob"
// and "carol".
func setupFanoutEnv(t *testing.T) *fanoutEnv {
	env := setupEnv(t)
	ctx := context.Background()

	project, err := env.projects.Create(ctx, "owner", "Launch", "")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	env.projects.AddMember(ctx, project.ID, "bob")
	env.projects.AddMember(ctx, project.ID, "carol")

	return &fanoutEnv{
		testEnv: env,
		fanout:  NewFanoutService(env.tasks, env.projects, env.notifications),
		project: project,
	}
}

func (e *fanoutEnv) notificationsFor(t *testing.T, userID string) []model.Notification {
	t.Helper()
	rows, err := e.notifications.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("list notifications for %s: %v", userID, err)
	}
	return rows
}

func TestFanoutDeduplicatesAssigneeAndMember(t *testing.T) {
	env := setupFanoutEnv(t)
	ctx := context.Background()

	// Two tasks so completing one does not complete the project.
	env.taskService.CreateTask(ctx, env.project.ID, "owner", CreateTaskInput{Title: "open", AssignedTo: "carol"})
	done, _ := env.taskService.CreateTask(ctx, env.project.ID, "owner", CreateTaskInput{Title: "t", AssignedTo: "bob", Status: "done"})

	err := env.fanout.Deliver(ctx, events.Event{
		Type:       events.TaskCompleted,
		ActorID:    "owner",
		ProjectID:  env.project.ID,
		TaskID:     done.ID,
		TaskTitle:  done.Title,
		AssigneeID: "bob",
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// bob is both assignee and member: exactly one row, with the
	// assignee-specific message.
	bobRows := env.notificationsFor(t, "bob")
	if len(bobRows) != 1 {
		t.Fatalf("bob: expected exactly 1 notification, got %d", len(bobRows))
	}
	if bobRows[0].Type != constants.NotificationTaskCompleted {
		t.Errorf("bob: type = %q, want task_completed", bobRows[0].Type)
	}
	if bobRows[0].Message != `Your task "t" was completed` {
		t.Errorf("bob: message = %q, want the assignee-specific wording", bobRows[0].Message)
	}

	if rows := env.notificationsFor(t, "carol"); len(rows) != 1 {
		t.Errorf("carol: expected 1 notification, got %d", len(rows))
	}
	if rows := env.notificationsFor(t, "owner"); len(rows) != 0 {
		t.Errorf("actor must never notify themselves, got %d rows", len(rows))
	}
}

func TestStatusChangedNotifiesAssigneeOnly(t *testing.T) {
	env := setupFanoutEnv(t)
	ctx := context.Background()

	task, _ := env.taskService.CreateTask(ctx, env.project.ID, "owner", CreateTaskInput{Title: "t", AssignedTo: "bob"})

	err := env.fanout.Deliver(ctx, events.Event{
		Type:       events.TaskStatusChanged,
		ActorID:    "owner",
		ProjectID:  env.project.ID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: "bob",
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	bobRows := env.notificationsFor(t, "bob")
	if len(bobRows) != 1 || bobRows[0].Type != constants.NotificationStatusChanged {
		t.Fatalf("bob: expected one status_changed row, got %+v", bobRows)
	}
	if rows := env.notificationsFor(t, "carol"); len(rows) != 0 {
		t.Errorf("status_changed notifies the assignee only, carol got %d rows", len(rows))
	}
}

func TestProjectCompletedOnLastDoneTask(t *testing.T) {
	env := setupFanoutEnv(t)
	ctx := context.Background()

	task, _ := env.taskService.CreateTask(ctx, env.project.ID, "bob", CreateTaskInput{Title: "only", AssignedTo: "bob", Status: "done"})

	err := env.fanout.Deliver(ctx, events.Event{
		Type:       events.TaskCompleted,
		ActorID:    "bob",
		ProjectID:  env.project.ID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: "bob",
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// owner and carol each get task_completed plus project_completed.
	for _, userID := range []string{"owner", "carol"} {
		rows := env.notificationsFor(t, userID)
		if len(rows) != 2 {
			t.Fatalf("%s: expected 2 notifications, got %d", userID, len(rows))
		}
		types := map[constants.NotificationType]bool{}
		for _, r := range rows {
			types[r.Type] = true
		}
		if !types[constants.NotificationTaskCompleted] || !types[constants.NotificationProjectCompleted] {
			t.Errorf("%s: expected task_completed and project_completed, got %v", userID, types)
		}
	}

	// The actor gets nothing, not even project_completed.
	if rows := env.notificationsFor(t, "bob"); len(rows) != 0 {
		t.Errorf("actor bob must receive nothing, got %d rows", len(rows))
	}
}

func TestMemberAddedRules(t *testing.T) {
	env := setupFanoutEnv(t)
	ctx := context.Background()

	// owner adds dave to the project.
	env.projects.AddMember(ctx, env.project.ID, "dave")

	err := env.fanout.Deliver(ctx, events.Event{
		Type:          events.MemberAdded,
		ActorID:       "owner",
		ProjectID:     env.project.ID,
		SubjectUserID: "dave",
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	daveRows := env.notificationsFor(t, "dave")
	if len(daveRows) != 1 || daveRows[0].Type != constants.NotificationProjectInvite {
		t.Fatalf("dave: expected one project_invite, got %+v", daveRows)
	}

	for _, userID := range []string{"bob", "carol"} {
		rows := env.notificationsFor(t, userID)
		if len(rows) != 1 || rows[0].Type != constants.NotificationNewMemberJoined {
			t.Errorf("%s: expected one new_member_joined, got %+v", userID, rows)
		}
	}

	if rows := env.notificationsFor(t, "owner"); len(rows) != 0 {
		t.Errorf("acting owner must receive nothing, got %d rows", len(rows))
	}
}

func TestMemberRemoved(t *testing.T) {
	env := setupFanoutEnv(t)
	ctx := context.Background()

	err := env.fanout.Deliver(ctx, events.Event{
		Type:          events.MemberRemoved,
		ActorID:       "owner",
		ProjectID:     env.project.ID,
		SubjectUserID: "bob",
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	rows := env.notificationsFor(t, "bob")
	if len(rows) != 1 || rows[0].Type != constants.NotificationProjectRemoved {
		t.Fatalf("bob: expected one project_removed, got %+v", rows)
	}
	if rows := env.notificationsFor(t, "carol"); len(rows) != 0 {
		t.Errorf("remaining members are not notified of removals, carol got %d rows", len(rows))
	}
}

func TestSelfRemovalIsSilent(t *testing.T) {
	env := setupFanoutEnv(t)
	ctx := context.Background()

	err := env.fanout.Deliver(ctx, events.Event{
		Type:          events.MemberRemoved,
		ActorID:       "bob",
		ProjectID:     env.project.ID,
		SubjectUserID: "bob",
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	for _, userID := range []string{"owner", "bob", "carol"} {
		if rows := env.notificationsFor(t, userID); len(rows) != 0 {
			t.Errorf("%s: self-removal must be silent, got %d rows", userID, len(rows))
		}
	}
}

func TestFileUploadedTaskScoped(t *testing.T) {
	env := setupFanoutEnv(t)
	ctx := context.Background()

	task, _ := env.taskService.CreateTask(ctx, env.project.ID, "owner", CreateTaskInput{Title: "t", AssignedTo: "bob"})

	err := env.fanout.Deliver(ctx, events.Event{
		Type:       events.FileUploaded,
		ActorID:    "carol",
		ProjectID:  env.project.ID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: "bob",
		FileName:   "report.pdf",
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}

	for _, userID := range []string{"owner", "bob"} {
		rows := env.notificationsFor(t, userID)
		if len(rows) != 1 || rows[0].Type != constants.NotificationFileUploaded {
			t.Fatalf("%s: expected one file_uploaded, got %+v", userID, rows)
		}
	}

	// The assignee gets the task-scoped wording.
	bobRows := env.notificationsFor(t, "bob")
	if bobRows[0].Message != `File "report.pdf" was attached to your task "t"` {
		t.Errorf("bob: message = %q, want the assignee-specific wording", bobRows[0].Message)
	}

	if rows := env.notificationsFor(t, "carol"); len(rows) != 0 {
		t.Errorf("uploader must receive nothing, got %d rows", len(rows))
	}
}

func TestDispatcherDeliversAndDropsFailures(t *testing.T) {
	env := setupFanoutEnv(t)
	ctx := context.Background()

	// Clear the membership events setup left behind so the assertion
	// below can only be satisfied by the event published here.
	drainEvents(t, env.queue)

	dispatcher := NewDispatcher(env.queue, env.fanout, 2)
	defer dispatcher.Shutdown(context.Background())

	// An event for a project that does not exist fails inside fan-out
	// and is dropped without killing the worker.
	env.queue.Publish(ctx, events.Event{
		Type:      events.TaskStatusChanged,
		ActorID:   "x",
		ProjectID: "missing",
	})

	task := &model.Task{ProjectID: env.project.ID, Title: "t", Status: constants.StatusTodo, AssignedTo: "bob"}
	if err := env.tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	env.queue.Publish(ctx, events.Event{
		Type:       events.TaskStatusChanged,
		ActorID:    "owner",
		ProjectID:  env.project.ID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		AssigneeID: "bob",
	})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if rows := env.notificationsFor(t, "bob"); len(rows) > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("dispatcher did not deliver the notification within deadline")
}
