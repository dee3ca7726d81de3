package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/event-booking/internal/model"
)

type photographyPackageReq struct {
    Name               string          `json:"name" validate:"required,max=100"`
    Description        string          `json:"description"`
    PhotoCount         string          `json:"photo_count" validate:"omitempty,oneof=50 150 unlimited"`
    Price              decimal.Decimal `json:"price"`
    PhotographersCount int             `json:"photographers_count"`
    IncludesEditing    bool            `json:"includes_editing"`
    IncludesAlbum      bool            `json:"includes_album"`
    IsActive           *bool           `json:"is_active"`
}

type cateringPackageReq struct {
    Name           string          `json:"name" validate:"required,max=100"`
    Description    string          `json:"description"`
    MealType       string          `json:"meal_type" validate:"required"`
    PricePerPlate  decimal.Decimal `json:"price_per_plate"`
    SupportsVeg    *bool           `json:"supports_veg"`
    SupportsNonVeg *bool           `json:"supports_nonveg"`
    MenuType       string          `json:"menu_type"`
    IsActive       *bool           `json:"is_active"`
}

func boolOr(p *bool, def bool) bool {
    if p == nil {
        return def
    }
    return *p
}

func (r photographyPackageReq) toModel(id uint64) model.PhotographyPackage {
    count := r.PhotoCount
    if count == "" {
        count = "50"
    }
    return model.PhotographyPackage{
        ID: id, Name: r.Name, Description: r.Description, PhotoCount: count,
        Price: r.Price, PhotographersCount: r.PhotographersCount,
        IncludesEditing: r.IncludesEditing, IncludesAlbum: r.IncludesAlbum,
        IsActive: boolOr(r.IsActive, true),
    }
}

func (r cateringPackageReq) toModel(id uint64) model.CateringPackage {
    return model.CateringPackage{
        ID: id, Name: r.Name, Description: r.Description, MealType: r.MealType,
        PricePerPlate: r.PricePerPlate,
        SupportsVeg:   boolOr(r.SupportsVeg, true), SupportsNonVeg: boolOr(r.SupportsNonVeg, true),
        MenuType: r.MenuType, IsActive: boolOr(r.IsActive, true),
    }
}

// ListPackages returns every package, active or not.
func (h *AdminCatalogHandler) ListPackages(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()

    pkgs, err := h.Catalog.AllPackages(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, pkgs)
}

func (h *AdminCatalogHandler) GetPhotography(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    p, err := h.Catalog.GetPhotography(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, p)
}

// SavePhotography creates a package on POST and replaces one on PUT /:id.
func (h *AdminCatalogHandler) SavePhotography(c echo.Context) error {
    var id uint64
    if c.Param("id") != "" {
        var err error
        if id, err = pathID(c, "id"); err != nil {
            return err
        }
    }
    var req photographyPackageReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    p := req.toModel(id)
    if err := h.Catalog.SavePhotography(ctx, &p); err != nil {
        return err
    }
    if id == 0 {
        return c.JSON(http.StatusCreated, p)
    }
    return c.JSON(http.StatusOK, p)
}

func (h *AdminCatalogHandler) DeletePhotography(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    if err := h.Catalog.DeletePhotography(ctx, id); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}

func (h *AdminCatalogHandler) GetCatering(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    p, err := h.Catalog.GetCatering(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, p)
}

// SaveCatering creates a package on POST and replaces one on PUT /:id.
func (h *AdminCatalogHandler) SaveCatering(c echo.Context) error {
    var id uint64
    if c.Param("id") != "" {
        var err error
        if id, err = pathID(c, "id"); err != nil {
            return err
        }
    }
    var req cateringPackageReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    p := req.toModel(id)
    if err := h.Catalog.SaveCatering(ctx, &p); err != nil {
        return err
    }
    if id == 0 {
        return c.JSON(http.StatusCreated, p)
    }
    return c.JSON(http.StatusOK, p)
}

func (h *AdminCatalogHandler) DeleteCatering(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    if err := h.Catalog.DeleteCatering(ctx, id); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}
