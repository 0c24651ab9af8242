package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the login flow routes. All of them are public:
// the caller has no token yet.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/auth")
	g.POST("", h.Login)
	g.POST("/two-fa", h.TwoFactor)
	g.POST("/code", h.VerificationCode)
	g.POST("/resend-code", h.ResendCode)
}
