package router // package router registers the HTTP routes of the API

import (
	"github.com/juju/clock"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/handler"
	"github.com/iliyamo/event-booking/internal/metrics"
	"github.com/iliyamo/event-booking/internal/middleware"
)

// Auth carries what protected route groups need to verify access tokens.
type Auth struct {
	Secret string
	Clock  clock.Clock
}

func (a Auth) jwt() echo.MiddlewareFunc { return middleware.JWTAuth(a.Secret, a.Clock) }

// RegisterRoutes registers the operational endpoints: health and metrics.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterAuth registers the session endpoints under /v1/auth and the
// profile endpoint /v1/me.  login sits behind limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth Auth, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login, limiter)
	// refresh rotates the refresh token; refresh-access keeps it.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// logout takes a refresh token in the body, or a bearer token to end
	// every session of the caller.
	g.POST("/logout", a.Logout, middleware.JWTOptional(auth.Secret, auth.Clock))

	e.GET("/v1/me", a.Me, auth.jwt())
}

// RegisterPublic registers the anonymous catalog endpoints.  The event
// listing is served through cache.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/events", p.ListEvents, cache)
	e.GET("/v1/events/:id", p.GetEvent)
	e.GET("/v1/categories", p.ListCategories)
	e.GET("/v1/packages", p.ListPackages)
}
