package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/event-booking/internal/middleware"
    "github.com/iliyamo/event-booking/internal/model"
    "github.com/iliyamo/event-booking/internal/service"
    "github.com/iliyamo/event-booking/internal/utils"
)

// --- mocks ---

type mockAuth struct {
    Authenticator
    loginFn    func(ctx context.Context, username, password string) (model.User, service.Session, error)
    registerFn func(ctx context.Context, in service.RegisterInput) (model.User, service.Session, error)
    logoutFn   func(ctx context.Context, userID uint64, raw string) error
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (model.User, service.Session, error) {
    return m.loginFn(ctx, username, password)
}
func (m *mockAuth) Register(ctx context.Context, in service.RegisterInput) (model.User, service.Session, error) {
    return m.registerFn(ctx, in)
}
func (m *mockAuth) Logout(ctx context.Context, userID uint64, raw string) error {
    return m.logoutFn(ctx, userID, raw)
}

type mockWorkflow struct {
    Workflow
    selectFn func(ctx context.Context, userID, bookingID uint64, sel service.ServiceSelection) (model.Booking, error)
    startFn  func(ctx context.Context, userID, eventID uint64, notes string) (model.Booking, error)
}

func (m *mockWorkflow) SelectServices(ctx context.Context, userID, bookingID uint64, sel service.ServiceSelection) (model.Booking, error) {
    return m.selectFn(ctx, userID, bookingID, sel)
}
func (m *mockWorkflow) StartBooking(ctx context.Context, userID, eventID uint64, notes string) (model.Booking, error) {
    return m.startFn(ctx, userID, eventID, notes)
}

type mockBackOffice struct {
    BackOffice
    setStatusFn func(ctx context.Context, actorID, bookingID uint64, status string) (model.Booking, bool, error)
    exportFn    func(ctx context.Context, q service.BookingQuery) ([]model.Booking, error)
}

func (m *mockBackOffice) SetStatus(ctx context.Context, actorID, bookingID uint64, status string) (model.Booking, bool, error) {
    return m.setStatusFn(ctx, actorID, bookingID, status)
}
func (m *mockBackOffice) ExportBookings(ctx context.Context, q service.BookingQuery) ([]model.Booking, error) {
    return m.exportFn(ctx, q)
}

// --- helpers ---

func newEcho() *echo.Echo {
    e := echo.New()
    e.Validator = NewRequestValidator()
    e.HTTPErrorHandler = middleware.ErrorHandler(nil)
    return e
}

// asUser stands in for JWTAuth.
func asUser(id uint64, role model.Role) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            c.Set(middleware.CtxUserID, id)
            c.Set(middleware.CtxRole, role)
            return next(c)
        }
    }
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(method, path, strings.NewReader(body))
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var out map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    return out
}

// --- tests ---

func TestAuthHandler_Login(t *testing.T) {
    until := time.Date(2026, 4, 10, 9, 5, 0, 0, time.UTC)
    auth := &mockAuth{loginFn: func(_ context.Context, username, password string) (model.User, service.Session, error) {
        switch password {
        case "right":
            return model.User{ID: 1, Username: username, Profile: model.UserProfile{Role: model.RoleUser}},
                service.Session{Access: utils.AccessToken{Token: "a"}, Refresh: utils.RefreshToken{Raw: "r"}}, nil
        case "locked":
            return model.User{}, service.Session{}, &service.AccountLockedError{Until: until}
        }
        return model.User{}, service.Session{}, &service.InvalidCredentialsError{AttemptsRemaining: 2}
    }}
    e := newEcho()
    h := NewAuthHandler(auth)
    e.POST("/login", h.Login)

    rec := do(e, http.MethodPost, "/login", `{"username":"alice","password":"right"}`)
    require.Equal(t, http.StatusOK, rec.Code)
    body := decode(t, rec)
    assert.Equal(t, "a", body["access"].(map[string]any)["token"])
    assert.Equal(t, "user", body["user"].(map[string]any)["role"])

    rec = do(e, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.EqualValues(t, 2, decode(t, rec)["attempts_remaining"])

    rec = do(e, http.MethodPost, "/login", `{"username":"alice","password":"locked"}`)
    assert.Equal(t, http.StatusLocked, rec.Code)
    assert.Equal(t, "2026-04-10T09:05:00Z", decode(t, rec)["locked_until"])

    rec = do(e, http.MethodPost, "/login", `{"username":"alice"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decode(t, rec)["fields"], "password")
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
    called := false
    auth := &mockAuth{registerFn: func(_ context.Context, in service.RegisterInput) (model.User, service.Session, error) {
        called = true
        return model.User{ID: 3, Username: in.Username}, service.Session{}, nil
    }}
    e := newEcho()
    e.POST("/register", NewAuthHandler(auth).Register)

    rec := do(e, http.MethodPost, "/register", `{"username":"bob","email":"not-an-email","password":"short"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    fields := decode(t, rec)["fields"].(map[string]any)
    assert.Contains(t, fields, "email")
    assert.Contains(t, fields, "password")
    assert.False(t, called)

    rec = do(e, http.MethodPost, "/register", `{"username":"bob","email":"bob@example.com","password":"longenough"}`)
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.True(t, called)
}

func TestAuthHandler_LogoutUsesBearerIdentity(t *testing.T) {
    var gotUser uint64
    auth := &mockAuth{logoutFn: func(_ context.Context, userID uint64, raw string) error {
        gotUser = userID
        return nil
    }}
    e := newEcho()
    e.POST("/logout", NewAuthHandler(auth).Logout, asUser(5, model.RoleUser))

    rec := do(e, http.MethodPost, "/logout", "")
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.EqualValues(t, 5, gotUser)
}

func TestBookingHandler_SelectServicesAcceptsLoosePlateCount(t *testing.T) {
    var got service.ServiceSelection
    wf := &mockWorkflow{selectFn: func(_ context.Context, userID, bookingID uint64, sel service.ServiceSelection) (model.Booking, error) {
        got = sel
        if userID != 1 {
            return model.Booking{}, service.ErrNotFound
        }
        return model.Booking{ID: bookingID, TotalAmount: decimal.RequireFromString("210")}, nil
    }}
    h := NewBookingHandler(wf)

    e := newEcho()
    e.PUT("/bookings/:id/services", h.SelectServices, asUser(1, model.RoleUser))
    for _, plates := range []string{`10`, `"10"`} {
        rec := do(e, http.MethodPut, "/bookings/7/services",
            `{"photography":{"package_id":3,"photo_type":"candid"},"catering":{"package_id":5,"food_type":"veg","plate_count":`+plates+`}}`)
        require.Equal(t, http.StatusOK, rec.Code)
        require.NotNil(t, got.Catering)
        assert.Equal(t, "10", got.Catering.PlateCount)
        assert.EqualValues(t, 3, got.Photography.PackageID)
    }

    rec := do(e, http.MethodPut, "/bookings/7/services", `{"catering":{"package_id":5,"plate_count":null}}`)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Nil(t, got.Photography)
    assert.Equal(t, "", got.Catering.PlateCount)

    other := newEcho()
    other.PUT("/bookings/:id/services", h.SelectServices, asUser(2, model.RoleUser))
    rec = do(other, http.MethodPut, "/bookings/7/services", `{}`)
    assert.Equal(t, http.StatusNotFound, rec.Code)

    rec = do(e, http.MethodPut, "/bookings/abc/services", `{}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingHandler_StartOnClosedEvent(t *testing.T) {
    wf := &mockWorkflow{startFn: func(context.Context, uint64, uint64, string) (model.Booking, error) {
        return model.Booking{}, service.ErrRegistrationDisabled
    }}
    e := newEcho()
    e.POST("/events/:id/bookings", NewBookingHandler(wf).Start, asUser(1, model.RoleUser))

    rec := do(e, http.MethodPost, "/events/9/bookings", `{"notes":"hi"}`)
    assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminHandler_SetStatus(t *testing.T) {
    admin := &mockBackOffice{setStatusFn: func(_ context.Context, actorID, id uint64, status string) (model.Booking, bool, error) {
        assert.EqualValues(t, 42, actorID)
        st, ok := model.ParseBookingStatus(status)
        return model.Booking{ID: id, Status: st}, ok, nil
    }}
    e := newEcho()
    e.POST("/bookings/:id/status", NewAdminHandler(admin).SetStatus, asUser(42, model.RoleStaff))

    body := decode(t, do(e, http.MethodPost, "/bookings/3/status", `{"status":"confirmed"}`))
    assert.Equal(t, true, body["updated"])

    body = decode(t, do(e, http.MethodPost, "/bookings/3/status", `{"status":"bogus"}`))
    assert.Equal(t, false, body["updated"])
}

func TestAdminHandler_Exports(t *testing.T) {
    var gotQuery service.BookingQuery
    admin := &mockBackOffice{exportFn: func(_ context.Context, q service.BookingQuery) ([]model.Booking, error) {
        gotQuery = q
        if q.Status == "bogus" {
            return nil, service.ValidationError{Fields: map[string]string{"status": "unknown status"}}
        }
        return []model.Booking{{ID: 1, Username: "alice", EventTitle: "Gala", Status: model.StatusPending,
            EventFee: decimal.NewFromInt(100), TotalAmount: decimal.NewFromInt(210)}}, nil
    }}
    h := NewAdminHandler(admin)
    e := newEcho()
    e.GET("/export/excel", h.ExportExcel)
    e.GET("/export/pdf", h.ExportPDF)

    rec := do(e, http.MethodGet, "/export/excel?status=pending&event=9", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "attachment; filename=bookings.xlsx", rec.Header().Get(echo.HeaderContentDisposition))
    assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
    assert.EqualValues(t, 9, gotQuery.EventID)

    rec = do(e, http.MethodGet, "/export/pdf", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))

    rec = do(e, http.MethodGet, "/export/pdf?status=bogus", "")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
    e := newEcho()
    e.GET("/up", Health(pingFunc(func(context.Context) error { return nil })))
    e.GET("/down", Health(pingFunc(func(context.Context) error { return errors.New("refused") })))

    assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/up", "").Code)
    assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/down", "").Code)
}
