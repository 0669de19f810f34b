package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "task-board-system.com/task-board-system/internal/errors"
	"task-board-system.com/task-board-system/internal/services"
)

type Handler struct {
	tasks         *services.TaskService
	projects      *services.ProjectService
	notifications *services.NotificationService
}

func NewHandler(
	tasks *services.TaskService,
	projects *services.ProjectService,
	notifications *services.NotificationService,
) *Handler {
	return &Handler{
		tasks:         tasks,
		projects:      projects,
		notifications: notifications,
	}
}

// actorID reads the acting user injected by the actor middleware.
func actorID(c echo.Context) string {
	id, _ := c.Get("userID").(string)
	return id
}

// httpError maps service errors onto echo HTTP errors.
func httpError(err error) error {
	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(appErr.StatusCode, appErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
