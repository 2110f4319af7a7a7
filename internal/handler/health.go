package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness for load balancers and monitoring.  It
// always answers 200 while the process serves requests; dependency state
// is informational.
type HealthHandler struct {
	Redis    *redis.Client
	Sessions func() int
}

// Health handles GET /healthz.
func (h HealthHandler) Health(c echo.Context) error {
	body := echo.Map{"status": "ok"}
	if h.Sessions != nil {
		body["sessions"] = h.Sessions()
	}
	switch {
	case h.Redis == nil:
		body["redis"] = "disabled"
	default:
		ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
		defer cancel()
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			body["redis"] = "down"
		} else {
			body["redis"] = "up"
		}
	}
	return c.JSON(http.StatusOK, body)
}
