package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-booking/internal/model"
    "github.com/iliyamo/event-booking/internal/service"
)

// Workflow is implemented by service.BookingWorkflow.
type Workflow interface {
    StartBooking(ctx context.Context, userID, eventID uint64, notes string) (model.Booking, error)
    SelectServices(ctx context.Context, userID, bookingID uint64, sel service.ServiceSelection) (model.Booking, error)
    ReviewBooking(ctx context.Context, userID, bookingID uint64) (model.Booking, error)
    ConfirmBooking(ctx context.Context, userID, bookingID uint64) (model.Booking, error)
    MyBookings(ctx context.Context, userID uint64) ([]model.Booking, error)
}

// BookingHandler exposes the three booking steps to signed-in users.
type BookingHandler struct {
    Workflow Workflow
}

func NewBookingHandler(wf Workflow) *BookingHandler {
    return &BookingHandler{Workflow: wf}
}

type startBookingReq struct {
    Notes string `json:"notes" validate:"max=2000"`
}

// photographyReq and cateringReq mirror the step-two form.  Option values
// are free text; unknown packages and bad plate counts are skipped by the
// workflow rather than rejected here.
type photographyReq struct {
    PackageID      uint64 `json:"package_id"`
    PhotoType      string `json:"photo_type"`
    Duration       string `json:"duration"`
    DeliveryMethod string `json:"delivery_method"`
}

type cateringReq struct {
    PackageID  uint64      `json:"package_id"`
    FoodType   string      `json:"food_type"`
    PlateCount looseString `json:"plate_count"`
}

type selectServicesReq struct {
    Photography *photographyReq `json:"photography"`
    Catering    *cateringReq    `json:"catering"`
}

func (r selectServicesReq) selection() service.ServiceSelection {
    var sel service.ServiceSelection
    if p := r.Photography; p != nil {
        sel.Photography = &service.PhotographySelection{
            PackageID: p.PackageID, PhotoType: p.PhotoType,
            Duration: p.Duration, DeliveryMethod: p.DeliveryMethod,
        }
    }
    if ct := r.Catering; ct != nil {
        sel.Catering = &service.CateringSelection{
            PackageID: ct.PackageID, FoodType: ct.FoodType, PlateCount: string(ct.PlateCount),
        }
    }
    return sel
}

// Start is step one: POST /v1/events/:id/bookings.
func (h *BookingHandler) Start(c echo.Context) error {
    uid, err := currentUser(c)
    if err != nil {
        return err
    }
    eventID, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req startBookingReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    b, err := h.Workflow.StartBooking(ctx, uid, eventID, req.Notes)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, b)
}

// SelectServices is step two: PUT /v1/bookings/:id/services.  The body
// replaces any previous selection; an empty body clears it.
func (h *BookingHandler) SelectServices(c echo.Context) error {
    uid, err := currentUser(c)
    if err != nil {
        return err
    }
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req selectServicesReq
    if err := c.Bind(&req); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    b, err := h.Workflow.SelectServices(ctx, uid, id, req.selection())
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, b)
}

// Review is step three: GET /v1/bookings/:id.
func (h *BookingHandler) Review(c echo.Context) error {
    uid, err := currentUser(c)
    if err != nil {
        return err
    }
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    b, err := h.Workflow.ReviewBooking(ctx, uid, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, b)
}

// Confirm submits the booking for staff review.
func (h *BookingHandler) Confirm(c echo.Context) error {
    uid, err := currentUser(c)
    if err != nil {
        return err
    }
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    b, err := h.Workflow.ConfirmBooking(ctx, uid, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Mine(c echo.Context) error {
    uid, err := currentUser(c)
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    list, err := h.Workflow.MyBookings(ctx, uid)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}
