package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-booking/internal/model"
)

// RequireCapability aborts with 403 unless the authenticated role is
// granted cap.  It must run after JWTAuth, which stores the role under
// CtxRole.
func RequireCapability(cap model.Capability) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(CtxRole).(model.Role)
            if !ok || !role.Can(cap) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
