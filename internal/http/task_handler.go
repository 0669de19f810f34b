package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-board-system.com/task-board-system/internal/data_models"
	"task-board-system.com/task-board-system/internal/http/validators"
	"task-board-system.com/task-board-system/internal/services"
)

func (h *Handler) ListTasks(c echo.Context) error {
	projectID := c.Param("id")
	if projectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), projectID, actorID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": dto.NewTaskResponses(tasks),
	})
}

func (h *Handler) GetTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	task, err := h.tasks.GetTask(c.Request().Context(), id, actorID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(*task))
}

func (h *Handler) CreateTask(c echo.Context) error {
	projectID := c.Param("id")
	if projectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), projectID, actorID(c), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.NewTaskResponse(*task))
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.tasks.UpdateTask(c.Request().Context(), id, actorID(c), services.UpdateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		AssignedTo:      req.AssignedTo,
		CompletionNotes: req.CompletionNotes,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(*task))
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	if err := h.tasks.DeleteTask(c.Request().Context(), id, actorID(c)); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ToggleFocus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	task, err := h.tasks.ToggleFocus(c.Request().Context(), id, actorID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(*task))
}

// GetFocus serves both the personal and the team focus view, selected
// by the "when" query parameter.
func (h *Handler) GetFocus(c echo.Context) error {
	projectID := c.Param("id")
	if projectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	ctx := c.Request().Context()

	switch c.QueryParam("when") {
	case "team":
		groups, err := h.tasks.FocusTeam(ctx, projectID, actorID(c))
		if err != nil {
			return httpError(err)
		}

		out := make([]dto.FocusGroupResponse, 0, len(groups))
		for _, g := range groups {
			out = append(out, dto.FocusGroupResponse{
				UserID: g.UserID,
				Tasks:  dto.NewTaskResponses(g.Tasks),
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"focus": out})

	case "", "mine":
		tasks, err := h.tasks.FocusMine(ctx, projectID, actorID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, echo.Map{"tasks": dto.NewTaskResponses(tasks)})

	default:
		return echo.NewHTTPError(http.StatusBadRequest, `when must be "mine" or "team"`)
	}
}

func (h *Handler) CreateTaskAttachment(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	var req dto.CreateAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateAttachmentRequest(&req); err != nil {
		return err
	}

	attachment, err := h.projects.AddTaskAttachment(c.Request().Context(), id, actorID(c), req.FileName)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, attachment)
}
