package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireLevel enforces a minimum group level on the authenticated account.
// Moderation and credit mutation endpoints are gated on staff levels.
func RequireLevel(minLevel int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			level, ok := c.Get("level").(int)
			if !ok || level < minLevel {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
