package handler

import (
    "bytes"
    "context"
    "io"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-booking/internal/export"
    "github.com/iliyamo/event-booking/internal/middleware"
    "github.com/iliyamo/event-booking/internal/model"
    "github.com/iliyamo/event-booking/internal/service"
)

// BackOffice is implemented by service.AdminService.
type BackOffice interface {
    ListBookings(ctx context.Context, q service.BookingQuery) (service.Page[model.Booking], error)
    ExportBookings(ctx context.Context, q service.BookingQuery) ([]model.Booking, error)
    GetBooking(ctx context.Context, id uint64) (model.Booking, error)
    SetStatus(ctx context.Context, actorID, bookingID uint64, status string) (model.Booking, bool, error)
    MarkAttendance(ctx context.Context, actorID, bookingID uint64) (model.Booking, error)
    ListUsers(ctx context.Context) ([]model.User, error)
    ToggleUserActive(ctx context.Context, actorID, userID uint64) (bool, error)
    UserBookings(ctx context.Context, userID uint64) (model.User, []model.Booking, error)
    Dashboard(ctx context.Context) (model.DashboardStats, error)
}

// AdminHandler serves the staff back-office over bookings and users.
type AdminHandler struct {
    Admin BackOffice
}

func NewAdminHandler(admin BackOffice) *AdminHandler {
    return &AdminHandler{Admin: admin}
}

func bookingQuery(c echo.Context) service.BookingQuery {
    return service.BookingQuery{
        EventID: queryUint(c, "event"),
        Status:  c.QueryParam("status"),
        Date:    c.QueryParam("date"),
        Page:    queryInt(c, "page"),
    }
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    st, err := h.Admin.Dashboard(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, st)
}

// ListBookings filters by event, status and date (YYYY-MM-DD), 20 per page.
func (h *AdminHandler) ListBookings(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    page, err := h.Admin.ListBookings(ctx, bookingQuery(c))
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) GetBooking(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    b, err := h.Admin.GetBooking(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, b)
}

type statusReq struct {
    Status string `json:"status"`
}

// SetStatus answers 200 with updated=false when the status is not one of
// pending, confirmed, rejected or completed.
func (h *AdminHandler) SetStatus(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    b, changed, err := h.Admin.SetStatus(ctx, middleware.UserID(c), id, req.Status)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b, "updated": changed})
}

func (h *AdminHandler) MarkAttendance(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    b, err := h.Admin.MarkAttendance(ctx, middleware.UserID(c), id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, b)
}

// ExportExcel and ExportPDF honour the same filters as ListBookings but
// return every matching row.
func (h *AdminHandler) ExportExcel(c echo.Context) error {
    return h.export(c, export.ExcelContentType, export.ExcelFilename, export.WriteExcel)
}

func (h *AdminHandler) ExportPDF(c echo.Context) error {
    return h.export(c, export.PDFContentType, export.PDFFilename, export.WritePDF)
}

func (h *AdminHandler) export(c echo.Context, contentType, filename string,
    write func(w io.Writer, bookings []model.Booking) error) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    list, err := h.Admin.ExportBookings(ctx, bookingQuery(c))
    if err != nil {
        return err
    }
    var buf bytes.Buffer
    if err := write(&buf, list); err != nil {
        return err
    }
    c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
    return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    list, err := h.Admin.ListUsers(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}

func (h *AdminHandler) ToggleUserActive(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    active, err := h.Admin.ToggleUserActive(ctx, middleware.UserID(c), id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"user_id": id, "is_active": active})
}

func (h *AdminHandler) UserBookings(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    u, list, err := h.Admin.UserBookings(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"user": u, "bookings": list})
}
