package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/repository"
)

// Page sizes of the listings.
const (
	EventsPageSize   = 12
	BookingsPageSize = 20
)

// EventStore is the event persistence used by the catalog.
type EventStore interface {
	Search(ctx context.Context, q repository.EventSearchQuery) ([]model.Event, int64, error)
	ListAll(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id uint64) (model.Event, error)
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id uint64) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]model.EventCategory, error)
	Create(ctx context.Context, c *model.EventCategory) error
	Delete(ctx context.Context, id uint64) error
}

type PackageStore interface {
	ListPhotography(ctx context.Context, activeOnly bool) ([]model.PhotographyPackage, error)
	GetPhotography(ctx context.Context, id uint64) (model.PhotographyPackage, error)
	CreatePhotography(ctx context.Context, p *model.PhotographyPackage) error
	UpdatePhotography(ctx context.Context, p *model.PhotographyPackage) error
	DeletePhotography(ctx context.Context, id uint64) error

	ListCatering(ctx context.Context, activeOnly bool) ([]model.CateringPackage, error)
	GetCatering(ctx context.Context, id uint64) (model.CateringPackage, error)
	CreateCatering(ctx context.Context, p *model.CateringPackage) error
	UpdateCatering(ctx context.Context, p *model.CateringPackage) error
	DeleteCatering(ctx context.Context, id uint64) error
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func newPage[T any](items []T, total int64, page, size int) Page[T] {
	pages := int((total + int64(size) - 1) / int64(size))
	return Page[T]{Items: items, Total: total, Page: page, PageSize: size, TotalPages: pages}
}

// EventSearch is the public listing query.
type EventSearch struct {
	Search     string
	CategoryID uint64
	EventType  string
	Location   string
	Page       int
}

// PackageCatalog holds the active packages offered in booking step two.
type PackageCatalog struct {
	Photography []model.PhotographyPackage `json:"photography"`
	Catering    []model.CateringPackage    `json:"catering"`
}

// CatalogService manages events, categories and add-on packages.
type CatalogService struct {
	events     EventStore
	categories CategoryStore
	packages   PackageStore
}

func NewCatalogService(events EventStore, categories CategoryStore, packages PackageStore) *CatalogService {
	return &CatalogService{events: events, categories: categories, packages: packages}
}

// SearchEvents returns one page of events, newest date first.  Pages are
// 1-based; out of range values are clamped to the first page.
func (s *CatalogService) SearchEvents(ctx context.Context, q EventSearch) (Page[model.Event], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.EventType != "" && !model.EventType(q.EventType).Valid() {
		return Page[model.Event]{}, invalid("event_type", "unknown event type")
	}
	items, total, err := s.events.Search(ctx, repository.EventSearchQuery{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		EventType:  q.EventType,
		Location:   q.Location,
		Page:       q.Page,
		PageSize:   EventsPageSize,
	})
	if err != nil {
		return Page[model.Event]{}, err
	}
	return newPage(items, total, q.Page, EventsPageSize), nil
}

func (s *CatalogService) GetEvent(ctx context.Context, id uint64) (model.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *CatalogService) ListAllEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.ListAll(ctx)
}

func (s *CatalogService) CreateEvent(ctx context.Context, e *model.Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	return conflictAsInvalid(s.events.Create(ctx, e), "category_id")
}

func (s *CatalogService) UpdateEvent(ctx context.Context, e *model.Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	return conflictAsInvalid(s.events.Update(ctx, e), "category_id")
}

func (s *CatalogService) DeleteEvent(ctx context.Context, id uint64) error {
	return s.events.Delete(ctx, id)
}

// conflictAsInvalid turns a foreign key conflict into a validation error on
// field.
func conflictAsInvalid(err error, field string) error {
	if errors.Is(err, repository.ErrConflict) {
		return invalid(field, "does not exist")
	}
	return err
}

func validateEvent(e *model.Event) error {
	fields := map[string]string{}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		fields["title"] = "is required"
	}
	if !e.EventType.Valid() {
		fields["event_type"] = "unknown event type"
	}
	if e.Date.IsZero() {
		fields["date"] = "is required"
	}
	if t, ok := normalizeClock(e.Time); ok {
		e.Time = t
	} else {
		fields["time"] = "must be HH:MM or HH:MM:SS"
	}
	if e.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if e.Capacity < 1 {
		fields["capacity"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	return nil
}

// normalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeClock(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), true
		}
	}
	return "", false
}

// ---- Categories ----

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.EventCategory, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *model.EventCategory) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("name", "is required")
	}
	return s.categories.Create(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint64) error {
	return s.categories.Delete(ctx, id)
}

// ---- Packages ----

// ActivePackages lists what a user may pick in booking step two.
func (s *CatalogService) ActivePackages(ctx context.Context) (PackageCatalog, error) {
	return s.listPackages(ctx, true)
}

// AllPackages lists every package for the back-office.
func (s *CatalogService) AllPackages(ctx context.Context) (PackageCatalog, error) {
	return s.listPackages(ctx, false)
}

func (s *CatalogService) listPackages(ctx context.Context, activeOnly bool) (PackageCatalog, error) {
	photo, err := s.packages.ListPhotography(ctx, activeOnly)
	if err != nil {
		return PackageCatalog{}, err
	}
	cater, err := s.packages.ListCatering(ctx, activeOnly)
	if err != nil {
		return PackageCatalog{}, err
	}
	return PackageCatalog{Photography: photo, Catering: cater}, nil
}

func (s *CatalogService) GetPhotography(ctx context.Context, id uint64) (model.PhotographyPackage, error) {
	return s.packages.GetPhotography(ctx, id)
}

func (s *CatalogService) SavePhotography(ctx context.Context, p *model.PhotographyPackage) error {
	fields := map[string]string{}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		fields["name"] = "is required"
	}
	if p.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if p.PhotographersCount < 1 {
		fields["photographers_count"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	if p.ID == 0 {
		return s.packages.CreatePhotography(ctx, p)
	}
	return s.packages.UpdatePhotography(ctx, p)
}

func (s *CatalogService) DeletePhotography(ctx context.Context, id uint64) error {
	return s.packages.DeletePhotography(ctx, id)
}

func (s *CatalogService) GetCatering(ctx context.Context, id uint64) (model.CateringPackage, error) {
	return s.packages.GetCatering(ctx, id)
}

func (s *CatalogService) SaveCatering(ctx context.Context, p *model.CateringPackage) error {
	fields := map[string]string{}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		fields["name"] = "is required"
	}
	if p.PricePerPlate.IsNegative() {
		fields["price_per_plate"] = "must not be negative"
	}
	switch p.MealType {
	case model.MealBreakfast, model.MealLunch, model.MealDinner, model.MealSnacks:
	default:
		fields["meal_type"] = "unknown meal type"
	}
	if p.MenuType == "" {
		p.MenuType = model.MenuStandard
	}
	if p.MenuType != model.MenuStandard && p.MenuType != model.MenuCustom {
		fields["menu_type"] = "unknown menu type"
	}
	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	if p.ID == 0 {
		return s.packages.CreateCatering(ctx, p)
	}
	return s.packages.UpdateCatering(ctx, p)
}

func (s *CatalogService) DeleteCatering(ctx context.Context, id uint64) error {
	return s.packages.DeleteCatering(ctx, id)
}
