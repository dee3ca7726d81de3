package middleware // middleware holds the reusable HTTP middleware of the API

import (
    "net/http"
    "strings"

    "github.com/juju/clock"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-booking/internal/model"
    "github.com/iliyamo/event-booking/internal/utils"
)

// Context keys populated by JWTAuth.
const (
    CtxUserID   = "user_id"  // uint64
    CtxRole     = "role"     // model.Role
    CtxUsername = "username" // string
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the caller's id, role and username in the request context.
// Expiry is checked against clk so tests can pin the time.
func JWTAuth(secret string, clk clock.Clock) echo.MiddlewareFunc {
    if clk == nil {
        clk = clock.WallClock
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := BearerToken(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }

            // Signature, algorithm (HS256 only) and expiry are all checked
            // by ParseAccessTokenAt.
            claims, err := utils.ParseAccessTokenAt(secret, raw, clk.Now())
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            id, err := claims.UserID()
            if err != nil || id == 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            role, err := model.ParseRole(claims.Role)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            c.Set(CtxUserID, id)
            c.Set(CtxRole, role)
            c.Set(CtxUsername, claims.Username)
            return next(c)
        }
    }
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    return raw, raw != ""
}

// JWTOptional behaves like JWTAuth when a bearer token is present and lets
// anonymous requests through untouched.
func JWTOptional(secret string, clk clock.Clock) echo.MiddlewareFunc {
    auth := JWTAuth(secret, clk)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        withAuth := auth(next)
        return func(c echo.Context) error {
            if _, ok := BearerToken(c); !ok {
                return next(c)
            }
            return withAuth(c)
        }
    }
}
