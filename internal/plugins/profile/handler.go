package profile

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/twester/twester/internal/apperror"
)

// Handler serves GET /me.
type Handler struct {
	service ProfileService
}

// NewHandler creates a new profile handler with the given service.
func NewHandler(service ProfileService) *Handler {
	return &Handler{service: service}
}

// GetMe returns the caller's own profile (GET /me?username=<login>).
func (h *Handler) GetMe(c echo.Context) error {
	token, err := BearerToken(c.Request().Header)
	if err != nil {
		return apperror.NewUnauthorized(err.Error())
	}

	username := c.QueryParam("username")
	if username == "" {
		return apperror.NewMalformedBody("missing field `username`")
	}

	resp, err := h.service.GetMe(c.Request().Context(), token, username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
