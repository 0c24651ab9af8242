package profile

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the profile route. The token is checked by the
// handler itself, not by a middleware, because its failure text is part of
// the response contract.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/me", h.GetMe)
}
