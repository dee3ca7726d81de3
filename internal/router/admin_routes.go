package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/handler"
	"github.com/iliyamo/event-booking/internal/middleware"
	"github.com/iliyamo/event-booking/internal/model"
)

// RegisterAdmin registers the back-office under /v1/admin.  Staff may
// manage bookings and see the dashboard; catalog and user management
// need the admin role.  Catalog writes run invalidate so cached event
// listings are dropped.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, cat *handler.AdminCatalogHandler, auth Auth, invalidate echo.MiddlewareFunc) {
	g := e.Group("/v1/admin", auth.jwt())
	need := middleware.RequireCapability

	g.GET("/dashboard", h.Dashboard, need(model.CapViewDashboard))

	b := g.Group("/bookings", need(model.CapManageBookings))
	b.GET("", h.ListBookings)
	b.GET("/export/excel", h.ExportExcel)
	b.GET("/export/pdf", h.ExportPDF)
	b.GET("/:id", h.GetBooking)
	b.POST("/:id/status", h.SetStatus)
	b.POST("/:id/attendance", h.MarkAttendance)

	u := g.Group("/users", need(model.CapManageUsers))
	u.GET("", h.ListUsers)
	u.POST("/:id/toggle-active", h.ToggleUserActive)
	u.GET("/:id/bookings", h.UserBookings)

	m := []echo.MiddlewareFunc{need(model.CapManageCatalog), invalidate}
	g.GET("/events", cat.ListEvents, m...)
	g.POST("/events", cat.CreateEvent, m...)
	g.PUT("/events/:id", cat.UpdateEvent, m...)
	g.DELETE("/events/:id", cat.DeleteEvent, m...)

	g.GET("/categories", cat.ListCategories, m...)
	g.POST("/categories", cat.CreateCategory, m...)
	g.DELETE("/categories/:id", cat.DeleteCategory, m...)

	g.GET("/packages", cat.ListPackages, m...)
	g.GET("/packages/photography/:id", cat.GetPhotography, m...)
	g.POST("/packages/photography", cat.SavePhotography, m...)
	g.PUT("/packages/photography/:id", cat.SavePhotography, m...)
	g.DELETE("/packages/photography/:id", cat.DeletePhotography, m...)
	g.GET("/packages/catering/:id", cat.GetCatering, m...)
	g.POST("/packages/catering", cat.SaveCatering, m...)
	g.PUT("/packages/catering/:id", cat.SaveCatering, m...)
	g.DELETE("/packages/catering/:id", cat.DeleteCatering, m...)
}
