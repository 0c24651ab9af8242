package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/twester/twester/internal/apperror"
	"github.com/twester/twester/internal/middleware"
)

// Handler handles the login flow endpoints. Handlers are thin: they bind the
// request, call the service, and render the response. No business logic
// lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// Login starts the flow with username and password (POST /auth).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// TwoFactor answers a two-factor challenge (POST /auth/two-fa).
func (h *Handler) TwoFactor(c echo.Context) error {
	var req TwoFactorRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.service.TwoFactor(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// VerificationCode answers a Twitchguard challenge (POST /auth/code).
func (h *Handler) VerificationCode(c echo.Context) error {
	var req VerificationCodeRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.service.VerificationCode(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// ResendCode asks Twitch to e-mail a new verification code
// (POST /auth/resend-code?streamerLogin=<login>).
func (h *Handler) ResendCode(c echo.Context) error {
	login := c.QueryParam("streamerLogin")
	if login == "" {
		return apperror.NewBadRequest("No streamer login provide in the request query")
	}

	raw, err := h.service.ResendCode(c.Request().Context(), login)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, raw)
}
