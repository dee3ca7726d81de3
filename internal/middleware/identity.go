package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated user id, or 0 when JWTAuth did not run.
func UserID(c echo.Context) uint64 {
    id, _ := c.Get(CtxUserID).(uint64)
    return id
}

// identityKey names the caller for rate limiting and cache keys: the user
// id when authenticated, otherwise "guest".
func identityKey(c echo.Context) string {
    if id := UserID(c); id != 0 {
        return strconv.FormatUint(id, 10)
    }
    return "guest"
}
