package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is the list of origins permitted to make cross-origin
	// requests. ["*"] allows any origin; this is the default because the
	// desktop client's renderer runs on a file:// or dev-server origin.
	AllowedOrigins []string
}

// defaultAllowedHeaders are sent on preflight when the browser did not list
// the headers it wants.
var defaultAllowedHeaders = []string{
	"Accept",
	"Authorization",
	"Content-Type",
	"Origin",
	"X-Requested-With",
}

// CORS returns middleware that handles Cross-Origin Resource Sharing headers.
// Allowed origins are echoed back (never "*") so the response stays valid
// for clients that send credentials. Preflights allow every method and
// whatever headers the browser asked for.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	allowAll := false
	originSet := make(map[string]bool)
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		originSet[o] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			origin := req.Header.Get(echo.HeaderOrigin)

			// No Origin header means same-origin request -- skip CORS.
			if origin == "" {
				return next(c)
			}

			if !allowAll && !originSet[origin] {
				// The browser will block the response on the client side.
				return next(c)
			}

			res.Header().Set(echo.HeaderAccessControlAllowOrigin, origin)
			res.Header().Add(echo.HeaderVary, echo.HeaderOrigin)

			if req.Method == http.MethodOptions && req.Header.Get(echo.HeaderAccessControlRequestMethod) != "" {
				res.Header().Set(echo.HeaderAccessControlAllowMethods,
					strings.Join([]string{
						http.MethodGet,
						http.MethodHead,
						http.MethodPost,
						http.MethodPut,
						http.MethodPatch,
						http.MethodDelete,
						http.MethodOptions,
					}, ", "))

				allowHeaders := req.Header.Get(echo.HeaderAccessControlRequestHeaders)
				if allowHeaders == "" {
					allowHeaders = strings.Join(defaultAllowedHeaders, ", ")
				}
				res.Header().Set(echo.HeaderAccessControlAllowHeaders, allowHeaders)
				res.Header().Set(echo.HeaderAccessControlMaxAge, "3600")

				return c.NoContent(http.StatusNoContent)
			}

			res.Header().Set(echo.HeaderAccessControlExposeHeaders, echo.HeaderXRequestID)

			return next(c)
		}
	}
}
