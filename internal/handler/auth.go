package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-booking/internal/middleware"
    "github.com/iliyamo/event-booking/internal/model"
    "github.com/iliyamo/event-booking/internal/service"
    "github.com/iliyamo/event-booking/internal/utils"
)

// Authenticator is implemented by service.AuthService.
type Authenticator interface {
    Register(ctx context.Context, in service.RegisterInput) (model.User, service.Session, error)
    Login(ctx context.Context, username, password string) (model.User, service.Session, error)
    Refresh(ctx context.Context, raw string) (model.User, service.Session, error)
    RefreshAccess(ctx context.Context, raw string) (utils.AccessToken, error)
    Logout(ctx context.Context, userID uint64, raw string) error
    Me(ctx context.Context, userID uint64) (model.User, error)
}

// AuthHandler serves registration, login and token endpoints.
type AuthHandler struct {
    Auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
    return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
    Username string `json:"username" validate:"required,max=150"`
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password" validate:"required,min=8"`
    Phone    string `json:"phone" validate:"max=15"`
    Address  string `json:"address"`
}
type loginReq struct {
    Username string `json:"username" validate:"required"`
    Password string `json:"password" validate:"required"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID       uint64     `json:"id"`
    Username string     `json:"username"`
    Email    string     `json:"email"`
    Role     model.Role `json:"role"`
}
type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

func newAuthResp(u model.User, s service.Session) authResp {
    return authResp{
        User:    userPart{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Profile.Role},
        Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
        Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp},
    }
}

// Register creates an account with role user and returns a session.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    u, sess, err := h.Auth.Register(ctx, service.RegisterInput{
        Username: req.Username, Email: req.Email, Password: req.Password,
        Phone: req.Phone, Address: req.Address,
    })
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, newAuthResp(u, sess))
}

// Login checks credentials through the lockout guard.  Failures come back
// as 401 with the remaining attempts, or 423 once the account is locked.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    u, sess, err := h.Auth.Login(ctx, req.Username, req.Password)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newAuthResp(u, sess))
}

// Refresh rotates the refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    u, sess, err := h.Auth.Refresh(ctx, req.RefreshToken)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newAuthResp(u, sess))
}

// RefreshAccess returns a new access token and leaves the refresh token
// valid.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
    var req refreshReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    at, err := h.Auth.RefreshAccess(ctx, req.RefreshToken)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"access": tokenPart{Token: at.Token, Expires: at.Exp}})
}

// Logout revokes one refresh token given in the body, or every token of
// the caller when only a valid bearer token is presented.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req struct {
        RefreshToken string `json:"refresh_token"`
    }
    _ = c.Bind(&req)

    ctx, cancel := withTimeout(c)
    defer cancel()

    if err := h.Auth.Logout(ctx, middleware.UserID(c), req.RefreshToken); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account with its profile.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, err := currentUser(c)
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    u, err := h.Auth.Me(ctx, uid)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, u)
}
