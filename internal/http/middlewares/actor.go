package middleware

import (
	"github.com/labstack/echo/v4"

	apperrors "task-board-system.com/task-board-system/internal/errors"
)

// Actor extracts the acting user from the X-User-ID header and stores
// it on the request context. Session handling lives upstream; this
// service only needs to know who is acting.
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get("X-User-ID")
			if userID == "" {
				return echo.NewHTTPError(apperrors.ErrActorRequired.StatusCode, apperrors.ErrActorRequired.Message)
			}

			c.Set("userID", userID)
			return next(c)
		}
	}
}
