package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-board-system.com/task-board-system/internal/data_models"
)

func ValidateCreateProjectRequest(r *dto.CreateProjectRequest) error {
	if r.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}

// ValidateUpdateTaskRequest rejects an empty patch: at least one field
// must be present.
func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	if r.Title == nil && r.Description == nil && r.Status == nil &&
		r.AssignedTo == nil && r.CompletionNotes == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one field is required")
	}
	if r.Title != nil && *r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
	}
	return nil
}

func ValidateAddMemberRequest(r *dto.AddMemberRequest) error {
	if r.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	return nil
}

func ValidateCreateNoteRequest(r *dto.CreateNoteRequest) error {
	if r.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	return nil
}

func ValidateCreateAttachmentRequest(r *dto.CreateAttachmentRequest) error {
	if r.FileName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "file_name is required")
	}
	return nil
}
