package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/twester/twester/internal/plugins/auth"
	"github.com/twester/twester/internal/plugins/profile"
	"github.com/twester/twester/internal/plugins/watch"
)

// RegisterRoutes sets up all application routes. It registers the status
// routes directly and delegates to each plugin's route registration function.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes() {
	e := a.Echo
	cfg := a.Config.Upstream

	// --- Status Routes ---
	// The client polls these to find out whether the server is up.

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"running": "yes"})
	})

	e.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "running"})
	})

	// --- Plugin Routes ---

	// auth plugin (password login and its challenge steps)
	authService := auth.NewAuthService(auth.NewPassportClient(a.Upstream, cfg.PassportURL))
	auth.RegisterRoutes(e, auth.NewHandler(authService))

	// profile plugin (GET /me with the caller's token)
	profileService := profile.NewProfileService(profile.NewClientFactory(a.Upstream, cfg.HelixURL+"/users"))
	profile.RegisterRoutes(e, profile.NewHandler(profileService))

	// watch plugin (minute-watched discovery and relay)
	var cache watch.URLCache = watch.NewNoopURLCache()
	if a.Redis != nil {
		cache = watch.NewRedisURLCache(a.Redis, a.Config.Watch.SpadeCacheTTL)
	}
	watchService := watch.NewWatchService(a.Upstream, cfg.WebURL, cache, a.Config.Watch.EventHosts)
	watch.RegisterRoutes(e, watch.NewHandler(watchService))
}
