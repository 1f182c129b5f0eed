package middleware

import (
	"fmt"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// RBAC admits only tokens whose role, as set by Auth, is one of roles
// (domain.RoleCarrier, domain.RoleAdmin). Refusals wrap domain.ErrForbidden
// and are rendered by the central error handler.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if !slices.Contains(roles, role) {
				return fmt.Errorf("%w: role %q cannot %s %s", domain.ErrForbidden, role, c.Request().Method, c.Path())
			}
			return next(c)
		}
	}
}
