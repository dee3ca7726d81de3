// Package handler exposes the booking platform over a JSON HTTP API.
package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-booking/internal/middleware"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bindAndValidate decodes the body into dst and runs the validator.
func bindAndValidate(c echo.Context, dst interface{}) error {
    if err := c.Bind(dst); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
    }
    return c.Validate(dst)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
    }
    return id, nil
}

// queryUint reads an optional numeric query parameter; bad values read as 0.
func queryUint(c echo.Context, name string) uint64 {
    v, _ := strconv.ParseUint(c.QueryParam(name), 10, 64)
    return v
}

func queryInt(c echo.Context, name string) int {
    v, _ := strconv.Atoi(c.QueryParam(name))
    return v
}

// currentUser returns the id stored by the JWT middleware.
func currentUser(c echo.Context) (uint64, error) {
    id := middleware.UserID(c)
    if id == 0 {
        return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }
    return id, nil
}

// looseString accepts a JSON string, number or null and keeps its text.
// Form-style clients send plate counts either way.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
    b = bytes.TrimSpace(b)
    if bytes.Equal(b, []byte("null")) {
        *s = ""
        return nil
    }
    if len(b) > 0 && b[0] == '"' {
        var str string
        if err := json.Unmarshal(b, &str); err != nil {
            return err
        }
        *s = looseString(str)
        return nil
    }
    var n json.Number
    if err := json.Unmarshal(b, &n); err != nil {
        return err
    }
    *s = looseString(n.String())
    return nil
}
