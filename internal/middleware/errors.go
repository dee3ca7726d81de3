package middleware

import (
    "errors"
    "log/slog"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-booking/internal/repository"
    "github.com/iliyamo/event-booking/internal/service"
)

// ErrorHandler returns an echo.HTTPErrorHandler that turns service and
// repository errors into JSON responses of the form {"error": "..."}.
// Unknown errors are logged and reported as 500 without detail.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
    if logger == nil {
        logger = slog.Default()
    }
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }
        status, body := errorResponse(err)
        if status == http.StatusInternalServerError {
            logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
        }
        if c.Request().Method == http.MethodHead {
            err = c.NoContent(status)
        } else {
            err = c.JSON(status, body)
        }
        if err != nil {
            logger.Error("writing error response", "err", err)
        }
    }
}

func errorResponse(err error) (int, echo.Map) {
    var (
        he      *echo.HTTPError
        verr    service.ValidationError
        badCred *service.InvalidCredentialsError
        locked  *service.AccountLockedError
    )
    switch {
    case errors.As(err, &he):
        msg, ok := he.Message.(string)
        if !ok {
            msg = http.StatusText(he.Code)
        }
        return he.Code, echo.Map{"error": msg}
    case errors.As(err, &verr):
        return http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": verr.Fields}
    case errors.As(err, &badCred):
        body := echo.Map{"error": "invalid username or password"}
        if badCred.AttemptsRemaining > 0 {
            body["attempts_remaining"] = badCred.AttemptsRemaining
        }
        return http.StatusUnauthorized, body
    case errors.As(err, &locked):
        return http.StatusLocked, echo.Map{
            "error":        "account locked, try again later",
            "locked_until": locked.Until.UTC().Format(time.RFC3339),
        }
    case errors.Is(err, service.ErrInvalidRefreshToken):
        return http.StatusUnauthorized, echo.Map{"error": err.Error()}
    case errors.Is(err, service.ErrAccountInactive):
        return http.StatusForbidden, echo.Map{"error": err.Error()}
    case errors.Is(err, repository.ErrNotFound):
        return http.StatusNotFound, echo.Map{"error": "not found"}
    case errors.Is(err, service.ErrRegistrationDisabled),
        errors.Is(err, service.ErrUsernameTaken),
        errors.Is(err, repository.ErrUsernameExists),
        errors.Is(err, repository.ErrConflict):
        return http.StatusConflict, echo.Map{"error": err.Error()}
    }
    return http.StatusInternalServerError, echo.Map{"error": "internal server error"}
}
