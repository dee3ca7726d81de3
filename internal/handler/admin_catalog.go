package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/event-booking/internal/model"
)

// AdminCatalogHandler manages events, categories and add-on packages.
type AdminCatalogHandler struct {
    Catalog Catalog
}

func NewAdminCatalogHandler(catalog Catalog) *AdminCatalogHandler {
    return &AdminCatalogHandler{Catalog: catalog}
}

type eventReq struct {
    Title               string          `json:"title" validate:"required,max=200"`
    Description         string          `json:"description"`
    CategoryID          *uint64         `json:"category_id"`
    EventType           string          `json:"event_type" validate:"required"`
    Date                string          `json:"date" validate:"required,datetime=2006-01-02"`
    Time                string          `json:"time" validate:"required"`
    Location            string          `json:"location" validate:"max=300"`
    Organizer           string          `json:"organizer" validate:"max=200"`
    Price               decimal.Decimal `json:"price"`
    Capacity            int             `json:"capacity"`
    RegistrationEnabled *bool           `json:"registration_enabled"`
}

// toModel leaves field-level rules (event type, time format, price and
// capacity bounds) to the catalog service.
func (r eventReq) toModel(id uint64) (model.Event, error) {
    day, err := time.Parse("2006-01-02", r.Date)
    if err != nil {
        return model.Event{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date")
    }
    enabled := true
    if r.RegistrationEnabled != nil {
        enabled = *r.RegistrationEnabled
    }
    return model.Event{
        ID:                  id,
        Title:               r.Title,
        Description:         r.Description,
        CategoryID:          r.CategoryID,
        EventType:           model.EventType(r.EventType),
        Date:                day,
        Time:                r.Time,
        Location:            r.Location,
        Organizer:           r.Organizer,
        Price:               r.Price,
        Capacity:            r.Capacity,
        RegistrationEnabled: enabled,
    }, nil
}

func (h *AdminCatalogHandler) ListEvents(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    list, err := h.Catalog.ListAllEvents(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}

func (h *AdminCatalogHandler) CreateEvent(c echo.Context) error {
    var req eventReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ev, err := req.toModel(0)
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    if err := h.Catalog.CreateEvent(ctx, &ev); err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, ev)
}

func (h *AdminCatalogHandler) UpdateEvent(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    var req eventReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ev, err := req.toModel(id)
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    if err := h.Catalog.UpdateEvent(ctx, &ev); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, ev)
}

func (h *AdminCatalogHandler) DeleteEvent(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    if err := h.Catalog.DeleteEvent(ctx, id); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}

// ---- Categories ----

type categoryReq struct {
    Name        string `json:"name" validate:"required,max=100"`
    Description string `json:"description"`
}

func (h *AdminCatalogHandler) ListCategories(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    list, err := h.Catalog.ListCategories(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}

func (h *AdminCatalogHandler) CreateCategory(c echo.Context) error {
    var req categoryReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    cat := model.EventCategory{Name: req.Name, Description: req.Description}
    if err := h.Catalog.CreateCategory(ctx, &cat); err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, cat)
}

// DeleteCategory removes the category; its events become uncategorised.
func (h *AdminCatalogHandler) DeleteCategory(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    if err := h.Catalog.DeleteCategory(ctx, id); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}
