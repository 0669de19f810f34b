package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-board-system.com/task-board-system/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))
	e.Use(middleware.Actor())

	e.POST("/projects", h.CreateProject)
	e.GET("/projects/:id", h.GetProject)
	e.GET("/projects/:id/members", h.ListMembers)
	e.POST("/projects/:id/members", h.AddMember)
	e.DELETE("/projects/:id/members/:userId", h.RemoveMember)
	e.GET("/projects/:id/tasks", h.ListTasks)
	e.POST("/projects/:id/tasks", h.CreateTask)
	e.GET("/projects/:id/focus", h.GetFocus)
	e.GET("/projects/:id/notes", h.ListNotes)
	e.POST("/projects/:id/notes", h.CreateNote)
	e.POST("/projects/:id/attachments", h.CreateProjectAttachment)

	e.GET("/tasks/:id", h.GetTask)
	e.PATCH("/tasks/:id", h.UpdateTask)
	e.DELETE("/tasks/:id", h.DeleteTask)
	e.POST("/tasks/:id/focus", h.ToggleFocus)
	e.POST("/tasks/:id/attachments", h.CreateTaskAttachment)

	e.GET("/notifications", h.ListNotifications)
	e.PATCH("/notifications/read", h.MarkAllNotificationsRead)
	e.PATCH("/notifications/:id/read", h.MarkNotificationRead)
	e.DELETE("/notifications", h.DeleteAllNotifications)
	e.DELETE("/notifications/:id", h.DeleteNotification)
}
