// Package router registers the HTTP routes of the selection service.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-selection/internal/handler"
	"github.com/iliyamo/cinema-seat-selection/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, h handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterSelection registers the seat selection endpoints under
// /v1/selections.  Every route requires a valid JWT with the CUSTOMER
// role.  The mutation routes (toggle, proceed) additionally pass through
// limit, the Redis token bucket.
func RegisterSelection(e *echo.Echo, h *handler.SelectionHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/selections",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	if limit == nil {
		limit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	g.POST("", h.Enter)
	g.GET("/:id", h.Get)
	g.PUT("/:id/showtime", h.SetShowtime)
	g.POST("/:id/seats/:seat_id/toggle", h.Toggle, limit)
	g.POST("/:id/reload/:resource", h.Reload)
	g.POST("/:id/proceed", h.Proceed, limit)
	g.DELETE("/:id", h.Leave)
}
