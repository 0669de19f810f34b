package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	c := New(server.URL, "alice")
	return c, server
}

func TestGetTasksServesStaleOnRefreshFailure(t *testing.T) {
	var fail atomic.Bool
	c, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tasks": []Task{{ID: "t1", ProjectID: "p1", Title: "write report", Status: "todo"}},
		})
	}))
	defer server.Close()
	defer c.Close()

	ctx := context.Background()

	tasks, err := c.GetTasks(ctx, "p1")
	if err != nil {
		t.Fatalf("initial fetch: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	// The server starts failing and the cache entry is marked stale:
	// the read must degrade to the last-known-good value, not error.
	fail.Store(true)
	c.Cache().Invalidate(TasksKey("p1"))

	tasks, err = c.GetTasks(ctx, "p1")
	if err != nil {
		t.Fatalf("stale read must not error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("expected last-known-good tasks, got %+v", tasks)
	}

	if _, _, fresh := c.Cache().Lookup(TasksKey("p1")); fresh {
		t.Fatal("entry must remain stale after a failed refresh")
	}
}

func TestGetTasksErrorsWithoutCachedValue(t *testing.T) {
	c, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	defer c.Close()

	_, err := c.GetTasks(context.Background(), "p1")

	var transient *TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("expected a transient error with an empty cache, got %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	var status atomic.Int32
	c, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := int(status.Load())
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
	}))
	defer server.Close()
	defer c.Close()

	ctx := context.Background()
	title := "x"

	status.Store(http.StatusForbidden)
	_, err := c.SubmitTaskMutation(ctx, "p1", "t1", TaskPatch{Title: &title})
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("403 must classify as AuthorizationError, got %v", err)
	}

	status.Store(http.StatusNotFound)
	_, err = c.SubmitTaskMutation(ctx, "p1", "t1", TaskPatch{Title: &title})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("404 must classify as APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}

	status.Store(http.StatusServiceUnavailable)
	_, err = c.SubmitTaskMutation(ctx, "p1", "t1", TaskPatch{Title: &title})
	var transient *TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("503 must classify as TransientError, got %v", err)
	}
}

func TestSubmitTaskMutationCommitsAuthoritativeRow(t *testing.T) {
	c, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-ID") != "alice" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(Task{ID: "t1", ProjectID: "p1", Title: "renamed", Status: "in-process"})
	}))
	defer server.Close()
	defer c.Close()

	c.Cache().Put(TasksKey("p1"), []Task{{ID: "t1", ProjectID: "p1", Title: "old", Status: "todo"}})

	title := "renamed"
	updated, err := c.SubmitTaskMutation(context.Background(), "p1", "t1", TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("mutation failed: %v", err)
	}
	if updated == nil || updated.Title != "renamed" || updated.Status != "in-process" {
		t.Fatalf("expected the server row, got %+v", updated)
	}

	v, _, _ := c.Cache().Lookup(TasksKey("p1"))
	tasks := v.([]Task)
	if len(tasks) != 1 || tasks[0].Status != "in-process" {
		t.Fatalf("cache must hold the authoritative row, got %+v", tasks)
	}
}

func TestFailedMutationRestoresCachedTasks(t *testing.T) {
	c, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "not a member"})
	}))
	defer server.Close()
	defer c.Close()

	before := []Task{{ID: "t1", ProjectID: "p1", Title: "old", Status: "todo"}}
	c.Cache().Put(TasksKey("p1"), before)

	if err := c.DeleteTask(context.Background(), "p1", "t1"); err == nil {
		t.Fatal("expected the delete to fail")
	}

	v, ok, _ := c.Cache().Lookup(TasksKey("p1"))
	if !ok {
		t.Fatal("snapshot must be restored")
	}
	tasks := v.([]Task)
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("expected the pre-mutation list, got %+v", tasks)
	}
}
