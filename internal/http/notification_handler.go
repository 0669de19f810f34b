package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ListNotifications(c echo.Context) error {
	notifications, err := h.notifications.List(c.Request().Context(), actorID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":         len(notifications),
		"notifications": notifications,
	})
}

func (h *Handler) MarkNotificationRead(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "notification id is required")
	}

	if err := h.notifications.MarkRead(c.Request().Context(), id, actorID(c)); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkAllNotificationsRead(c echo.Context) error {
	if err := h.notifications.MarkAllRead(c.Request().Context(), actorID(c)); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteNotification(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "notification id is required")
	}

	if err := h.notifications.Delete(c.Request().Context(), id, actorID(c)); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteAllNotifications(c echo.Context) error {
	if err := h.notifications.DeleteAll(c.Request().Context(), actorID(c)); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
