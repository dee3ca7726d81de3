package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/handler"
)

// RegisterBooking registers the booking workflow for any signed-in user.
// Ownership of a booking is enforced by the workflow itself.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, auth Auth) {
	g := e.Group("/v1", auth.jwt())
	g.POST("/events/:id/bookings", h.Start)
	g.PUT("/bookings/:id/services", h.SelectServices)
	g.GET("/bookings/:id", h.Review)
	g.POST("/bookings/:id/confirm", h.Confirm)
	g.GET("/my-bookings", h.Mine)
}
