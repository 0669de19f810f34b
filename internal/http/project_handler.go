package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-board-system.com/task-board-system/internal/data_models"
	"task-board-system.com/task-board-system/internal/http/validators"
)

func (h *Handler) CreateProject(c echo.Context) error {
	var req dto.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateProjectRequest(&req); err != nil {
		return err
	}

	project, err := h.projects.CreateProject(c.Request().Context(), actorID(c), req.Name, req.Description)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, project)
}

func (h *Handler) GetProject(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	project, err := h.projects.GetProject(c.Request().Context(), id, actorID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, project)
}

func (h *Handler) ListMembers(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	members, err := h.projects.Members(c.Request().Context(), id, actorID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":   len(members),
		"members": members,
	})
}

func (h *Handler) AddMember(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	var req dto.AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateAddMemberRequest(&req); err != nil {
		return err
	}

	member, err := h.projects.AddMember(c.Request().Context(), id, actorID(c), req.UserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, member)
}

func (h *Handler) RemoveMember(c echo.Context) error {
	id := c.Param("id")
	userID := c.Param("userId")
	if id == "" || userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id and user id are required")
	}

	if err := h.projects.RemoveMember(c.Request().Context(), id, actorID(c), userID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListNotes(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	notes, err := h.projects.ListNotes(c.Request().Context(), id, actorID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(notes),
		"notes": notes,
	})
}

func (h *Handler) CreateNote(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	var req dto.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateNoteRequest(&req); err != nil {
		return err
	}

	note, err := h.projects.CreateNote(c.Request().Context(), id, actorID(c), req.Content)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, note)
}

func (h *Handler) CreateProjectAttachment(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}

	var req dto.CreateAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateAttachmentRequest(&req); err != nil {
		return err
	}

	attachment, err := h.projects.AddProjectAttachment(c.Request().Context(), id, actorID(c), req.FileName)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, attachment)
}
