// Package app is the application bootstrap and dependency injection root.
// It creates and holds the shared infrastructure (outbound HTTP client,
// optional Redis client, Echo instance) and wires together all plugins.
package app

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/twester/twester/internal/apperror"
	"github.com/twester/twester/internal/config"
	"github.com/twester/twester/internal/middleware"
	"github.com/twester/twester/internal/upstream"
)

// maxRequestBody caps inbound bodies. Every request shape is a handful of
// short strings.
const maxRequestBody = "64K"

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Redis is the optional Redis client; nil when REDIS_URL is unset.
	Redis *redis.Client

	// Upstream is the outbound transport shared by every plugin.
	Upstream *upstream.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling. rdb may be nil.
func New(cfg *config.Config, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	app := &App{
		Config:   cfg,
		Redis:    rdb,
		Upstream: upstream.New(cfg.Upstream.Timeout),
		Echo:     e,
	}

	app.setupMiddleware()

	e.HTTPErrorHandler = app.errorHandler

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	// Panic recovery -- must be outermost to catch panics from all other middleware.
	a.Echo.Use(middleware.Recovery())

	// Request ID before logging so every log line can carry it.
	a.Echo.Use(middleware.RequestID())

	a.Echo.Use(middleware.RequestLogger())

	a.Echo.Use(middleware.SecurityHeaders())

	// CORS -- the desktop client's renderer is cross-origin.
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: a.Config.CORS.AllowedOrigins,
	}))

	a.Echo.Use(echomw.BodyLimit(maxRequestBody))
}

// errorHandler is the custom Echo error handler. Every error is rendered as
// JSON. Malformed bodies use the flat {"error": "<message>"} shape the
// client already parses; everything else is {"error": {"message": ...}}.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := apperror.NewInternal(nil).Message
	flat := false

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		flat = appErr.Type == apperror.TypeMalformedBody

		if appErr.Internal != nil {
			level := slog.LevelWarn
			if code >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.Log(c.Request().Context(), level, "request failed",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
				slog.String("request_id", middleware.GetRequestID(c)),
			)
		}

	case errors.As(err, &echoErr):
		// Router 404/405, body limit, and similar framework errors.
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			message = msg
		} else {
			message = http.StatusText(code)
		}

	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("request_id", middleware.GetRequestID(c)),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	var body any
	if flat {
		body = map[string]string{"error": message}
	} else {
		body = map[string]map[string]string{"error": {"message": message}}
	}
	if err := c.JSON(code, body); err != nil {
		slog.Error("writing error response", slog.Any("error", err))
	}
}

// Start begins listening for HTTP requests on the configured address.
func (a *App) Start() error {
	slog.Info("starting twester server",
		slog.String("addr", a.Config.Addr),
		slog.String("env", a.Config.Env),
		slog.Bool("redis", a.Redis != nil),
	)
	return a.Echo.Start(a.Config.Addr)
}
