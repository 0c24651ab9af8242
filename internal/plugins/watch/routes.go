package watch

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the minute-watched routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/minute-watched-request-url", h.MinuteWatchedURL)
	e.POST("/minute-watched-event", h.SendEvent)
}
