package watch

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/twester/twester/internal/apperror"
)

// Handler serves the minute-watched endpoints.
type Handler struct {
	service WatchService
}

// NewHandler creates a new watch handler with the given service.
func NewHandler(service WatchService) *Handler {
	return &Handler{service: service}
}

// MinuteWatchedURL returns the spade URL for a streamer
// (GET /minute-watched-request-url?streamerLogin=<login>).
func (h *Handler) MinuteWatchedURL(c echo.Context) error {
	login := c.QueryParam("streamerLogin")
	if login == "" {
		return apperror.NewBadRequest("No streamer login provide in the request query")
	}

	spadeURL, err := h.service.MinuteWatchedURL(c.Request().Context(), login)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MinuteWatchedURLResponse{
		Data: MinuteWatchedURL{MinuteWatchedURL: spadeURL},
	})
}

// SendEvent relays one event (POST /minute-watched-event). Undecodable JSON
// is a malformed body; a decodable body missing url or payload is the
// nested "Invalid request body" error from the service.
func (h *Handler) SendEvent(c echo.Context) error {
	var event MinuteWatchedEvent
	if err := json.NewDecoder(c.Request().Body).Decode(&event); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		if errors.Is(err, io.EOF) {
			return apperror.NewMalformedBody("EOF while parsing a value")
		}
		return apperror.NewMalformedBody(err.Error())
	}

	if err := h.service.SendEvent(c.Request().Context(), event); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, struct{}{})
}
