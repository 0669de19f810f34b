// Package client is the session-side engine of the task board: a keyed
// TTL read cache, an optimistic mutator with rollback, and a
// visibility-aware sync poller, driven over the board's HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Task is the UI-facing task shape; Status carries the UI vocabulary.
type Task struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	AssignedTo      string     `json:"assigned_to"`
	FocusToday      bool       `json:"focus_today"`
	FocusUserID     string     `json:"focus_user_id,omitempty"`
	FocusDate       *time.Time `json:"focus_date,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type FocusGroup struct {
	UserID string `json:"user_id"`
	Tasks  []Task `json:"tasks"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskPatch is a partial task mutation; nil fields are untouched.
type TaskPatch struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Status          *string `json:"status,omitempty"`
	AssignedTo      *string `json:"assigned_to,omitempty"`
	CompletionNotes *string `json:"completion_notes,omitempty"`
}

type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
}

// Client binds one user session to the board API. Its cache, mutator
// and poller are constructed per instance; nothing is shared globally.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	cache      *Cache
	mutator    *Mutator
	poller     *Poller
}

func New(baseURL, userID string) *Client {
	cache := NewCache()
	return &Client{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache,
		mutator:    NewMutator(cache),
		poller:     NewPoller(cache, DefaultPollInterval),
	}
}

func (c *Client) Cache() *Cache   { return c.cache }
func (c *Client) Poller() *Poller { return c.poller }

// Close stops the poller.
func (c *Client) Close() {
	c.poller.Stop()
}

// GetTasks serves the project's task list from cache while fresh and
// revalidates otherwise. A failed refresh degrades to the last-known-
// good value, marked stale, instead of an empty screen.
func (c *Client) GetTasks(ctx context.Context, projectID string) ([]Task, error) {
	key := TasksKey(projectID)
	if v, ok, fresh := c.cache.Lookup(key); ok && fresh {
		return v.([]Task), nil
	}

	var payload struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID+"/tasks", nil, &payload); err != nil {
		if v, ok, _ := c.cache.Lookup(key); ok {
			c.cache.Invalidate(key)
			log.Printf("client: %v", &StaleReadError{Key: key, Err: err})
			return v.([]Task), nil
		}
		return nil, err
	}

	c.cache.Put(key, payload.Tasks)
	return payload.Tasks, nil
}

// GetMyFocus lists the session user's focus tasks for today.
func (c *Client) GetMyFocus(ctx context.Context, projectID string) ([]Task, error) {
	key := FocusKey(projectID, "mine")
	if v, ok, fresh := c.cache.Lookup(key); ok && fresh {
		return v.([]Task), nil
	}

	var payload struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID+"/focus?when=mine", nil, &payload); err != nil {
		if v, ok, _ := c.cache.Lookup(key); ok {
			c.cache.Invalidate(key)
			log.Printf("client: %v", &StaleReadError{Key: key, Err: err})
			return v.([]Task), nil
		}
		return nil, err
	}

	c.cache.Put(key, payload.Tasks)
	return payload.Tasks, nil
}

// GetTeamFocus lists today's focus tasks for the whole project, grouped
// by user.
func (c *Client) GetTeamFocus(ctx context.Context, projectID string) ([]FocusGroup, error) {
	key := FocusKey(projectID, "team")
	if v, ok, fresh := c.cache.Lookup(key); ok && fresh {
		return v.([]FocusGroup), nil
	}

	var payload struct {
		Focus []FocusGroup `json:"focus"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectID+"/focus?when=team", nil, &payload); err != nil {
		if v, ok, _ := c.cache.Lookup(key); ok {
			c.cache.Invalidate(key)
			log.Printf("client: %v", &StaleReadError{Key: key, Err: err})
			return v.([]FocusGroup), nil
		}
		return nil, err
	}

	c.cache.Put(key, payload.Focus)
	return payload.Focus, nil
}

func (c *Client) GetNotifications(ctx context.Context) ([]Notification, error) {
	key := NotificationsKey(c.userID)
	if v, ok, fresh := c.cache.Lookup(key); ok && fresh {
		return v.([]Notification), nil
	}

	var payload struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &payload); err != nil {
		if v, ok, _ := c.cache.Lookup(key); ok {
			c.cache.Invalidate(key)
			log.Printf("client: %v", &StaleReadError{Key: key, Err: err})
			return v.([]Notification), nil
		}
		return nil, err
	}

	c.cache.Put(key, payload.Notifications)
	return payload.Notifications, nil
}

// CreateTask appends an optimistic placeholder row immediately and
// swaps in the server's authoritative task when the write settles.
func (c *Client) CreateTask(ctx context.Context, projectID string, in CreateTaskInput) (*Task, error) {
	placeholderID := "pending-" + uuid.NewString()

	result, err := c.mutator.Do(ctx, Mutation{
		Key: TasksKey(projectID),
		Projection: func(old interface{}) interface{} {
			tasks, _ := old.([]Task)
			placeholder := Task{
				ID:         placeholderID,
				ProjectID:  projectID,
				Title:      in.Title,
				Status:     in.Status,
				AssignedTo: in.AssignedTo,
			}
			return append([]Task{placeholder}, tasks...)
		},
		Call: func(ctx context.Context) (interface{}, error) {
			var created Task
			if err := c.do(ctx, http.MethodPost, "/projects/"+projectID+"/tasks", in, &created); err != nil {
				return nil, err
			}
			return &created, nil
		},
		Merge: func(optimistic, authoritative interface{}) interface{} {
			tasks, _ := optimistic.([]Task)
			created := authoritative.(*Task)
			return replaceTask(tasks, placeholderID, *created)
		},
		Dependents: []Key{FocusKey(projectID, "mine"), FocusKey(projectID, "team")},
	})
	if err != nil {
		return nil, err
	}

	c.poller.ForceSync(projectID)
	return findTask(result.([]Task), func(t Task) bool { return t.ID != placeholderID && t.Title == in.Title }), nil
}

// SubmitTaskMutation applies a partial task update optimistically and
// reconciles with the server's authoritative row.
func (c *Client) SubmitTaskMutation(ctx context.Context, projectID, taskID string, patch TaskPatch) (*Task, error) {
	result, err := c.mutator.Do(ctx, Mutation{
		Key: TasksKey(projectID),
		Projection: func(old interface{}) interface{} {
			tasks, _ := old.([]Task)
			return mapTasks(tasks, taskID, func(t Task) Task {
				if patch.Title != nil {
					t.Title = *patch.Title
				}
				if patch.Description != nil {
					t.Description = *patch.Description
				}
				if patch.Status != nil {
					t.Status = *patch.Status
				}
				if patch.AssignedTo != nil {
					t.AssignedTo = *patch.AssignedTo
				}
				if patch.CompletionNotes != nil {
					t.CompletionNotes = *patch.CompletionNotes
				}
				return t
			})
		},
		Call: func(ctx context.Context) (interface{}, error) {
			var updated Task
			if err := c.do(ctx, http.MethodPatch, "/tasks/"+taskID, patch, &updated); err != nil {
				return nil, err
			}
			return &updated, nil
		},
		Merge: func(optimistic, authoritative interface{}) interface{} {
			tasks, _ := optimistic.([]Task)
			updated := authoritative.(*Task)
			return replaceTask(tasks, taskID, *updated)
		},
		Dependents: []Key{FocusKey(projectID, "mine"), FocusKey(projectID, "team")},
	})
	if err != nil {
		return nil, err
	}

	c.poller.ForceSync(projectID)
	return findTask(result.([]Task), func(t Task) bool { return t.ID == taskID }), nil
}

// ToggleFocus flips a task's focus marker optimistically.
func (c *Client) ToggleFocus(ctx context.Context, projectID, taskID string) (*Task, error) {
	result, err := c.mutator.Do(ctx, Mutation{
		Key: TasksKey(projectID),
		Projection: func(old interface{}) interface{} {
			tasks, _ := old.([]Task)
			return mapTasks(tasks, taskID, func(t Task) Task {
				t.FocusToday = !t.FocusToday
				if t.FocusToday {
					t.FocusUserID = c.userID
					day := time.Now().UTC().Truncate(24 * time.Hour)
					t.FocusDate = &day
				} else {
					t.FocusUserID = ""
					t.FocusDate = nil
				}
				return t
			})
		},
		Call: func(ctx context.Context) (interface{}, error) {
			var updated Task
			if err := c.do(ctx, http.MethodPost, "/tasks/"+taskID+"/focus", nil, &updated); err != nil {
				return nil, err
			}
			return &updated, nil
		},
		Merge: func(optimistic, authoritative interface{}) interface{} {
			tasks, _ := optimistic.([]Task)
			updated := authoritative.(*Task)
			return replaceTask(tasks, taskID, *updated)
		},
		Dependents: []Key{FocusKey(projectID, "mine"), FocusKey(projectID, "team")},
	})
	if err != nil {
		return nil, err
	}

	c.poller.ForceSync(projectID)
	return findTask(result.([]Task), func(t Task) bool { return t.ID == taskID }), nil
}

// DeleteTask removes the row optimistically; the 204 response commits
// the projection as is.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	_, err := c.mutator.Do(ctx, Mutation{
		Key: TasksKey(projectID),
		Projection: func(old interface{}) interface{} {
			tasks, _ := old.([]Task)
			out := make([]Task, 0, len(tasks))
			for _, t := range tasks {
				if t.ID != taskID {
					out = append(out, t)
				}
			}
			return out
		},
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, c.do(ctx, http.MethodDelete, "/tasks/"+taskID, nil, nil)
		},
		Dependents: []Key{FocusKey(projectID, "mine"), FocusKey(projectID, "team")},
	})
	if err != nil {
		return err
	}

	c.poller.ForceSync(projectID)
	return nil
}

// MarkNotificationRead marks one notification, or all of them when id
// is "all".
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := "/notifications/" + id + "/read"
	if id == "all" {
		path = "/notifications/read"
	}

	_, err := c.mutator.Do(ctx, Mutation{
		Key: NotificationsKey(c.userID),
		Projection: func(old interface{}) interface{} {
			rows, _ := old.([]Notification)
			out := make([]Notification, len(rows))
			for i, n := range rows {
				if id == "all" || n.ID == id {
					n.Read = true
				}
				out[i] = n
			}
			return out
		},
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, c.do(ctx, http.MethodPatch, path, nil, nil)
		},
	})
	return err
}

// DeleteNotification deletes one notification, or all of them when id
// is "all".
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	path := "/notifications/" + id
	if id == "all" {
		path = "/notifications"
	}

	_, err := c.mutator.Do(ctx, Mutation{
		Key: NotificationsKey(c.userID),
		Projection: func(old interface{}) interface{} {
			rows, _ := old.([]Notification)
			if id == "all" {
				return []Notification{}
			}
			out := make([]Notification, 0, len(rows))
			for _, n := range rows {
				if n.ID != id {
					out = append(out, n)
				}
			}
			return out
		},
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, c.do(ctx, http.MethodDelete, path, nil, nil)
		},
	})
	return err
}

// do performs one request and classifies failures: 401/403 become
// AuthorizationError, network errors and 5xx become TransientError,
// any other non-2xx becomes APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-User-ID", c.userID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthorizationError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if resp.StatusCode >= 500 {
		return &TransientError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func readMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Message == "" {
		return string(raw)
	}
	return payload.Message
}

func mapTasks(tasks []Task, taskID string, fn func(Task) Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.ID == taskID {
			t = fn(t)
		}
		out[i] = t
	}
	return out
}

func replaceTask(tasks []Task, taskID string, replacement Task) []Task {
	out := make([]Task, 0, len(tasks))
	replaced := false
	for _, t := range tasks {
		if t.ID == taskID {
			out = append(out, replacement)
			replaced = true
			continue
		}
		out = append(out, t)
	}
	if !replaced {
		out = append(out, replacement)
	}
	return out
}

func findTask(tasks []Task, match func(Task) bool) *Task {
	for i := range tasks {
		if match(tasks[i]) {
			t := tasks[i]
			return &t
		}
	}
	return nil
}
