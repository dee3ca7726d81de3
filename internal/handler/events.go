package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-booking/internal/model"
    "github.com/iliyamo/event-booking/internal/service"
)

// Catalog is implemented by service.CatalogService.
type Catalog interface {
    SearchEvents(ctx context.Context, q service.EventSearch) (service.Page[model.Event], error)
    GetEvent(ctx context.Context, id uint64) (model.Event, error)
    ListAllEvents(ctx context.Context) ([]model.Event, error)
    CreateEvent(ctx context.Context, e *model.Event) error
    UpdateEvent(ctx context.Context, e *model.Event) error
    DeleteEvent(ctx context.Context, id uint64) error

    ListCategories(ctx context.Context) ([]model.EventCategory, error)
    CreateCategory(ctx context.Context, c *model.EventCategory) error
    DeleteCategory(ctx context.Context, id uint64) error

    ActivePackages(ctx context.Context) (service.PackageCatalog, error)
    AllPackages(ctx context.Context) (service.PackageCatalog, error)
    GetPhotography(ctx context.Context, id uint64) (model.PhotographyPackage, error)
    SavePhotography(ctx context.Context, p *model.PhotographyPackage) error
    DeletePhotography(ctx context.Context, id uint64) error
    GetCatering(ctx context.Context, id uint64) (model.CateringPackage, error)
    SaveCatering(ctx context.Context, p *model.CateringPackage) error
    DeleteCatering(ctx context.Context, id uint64) error
}

// PublicHandler serves the anonymous browsing endpoints.
type PublicHandler struct {
    Catalog Catalog
}

func NewPublicHandler(catalog Catalog) *PublicHandler {
    return &PublicHandler{Catalog: catalog}
}

// ListEvents searches the catalog.  Query parameters: search, category,
// event_type, location and page (12 events per page).
func (h *PublicHandler) ListEvents(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    page, err := h.Catalog.SearchEvents(ctx, service.EventSearch{
        Search:     strings.TrimSpace(c.QueryParam("search")),
        CategoryID: queryUint(c, "category"),
        EventType:  strings.TrimSpace(c.QueryParam("event_type")),
        Location:   strings.TrimSpace(c.QueryParam("location")),
        Page:       queryInt(c, "page"),
    })
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, page)
}

func (h *PublicHandler) GetEvent(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    ev, err := h.Catalog.GetEvent(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, ev)
}

func (h *PublicHandler) ListCategories(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    list, err := h.Catalog.ListCategories(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// ListPackages returns the active add-ons offered in booking step two.
func (h *PublicHandler) ListPackages(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    pkgs, err := h.Catalog.ActivePackages(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, pkgs)
}
