// Package server assembles the HTTP API from the domain handlers.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/auth"
	categoryH "github.com/fekuna/omnipos-picklist-service/internal/category/handler"
	imageH "github.com/fekuna/omnipos-picklist-service/internal/image/handler"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	orderH "github.com/fekuna/omnipos-picklist-service/internal/order/handler"
	productH "github.com/fekuna/omnipos-picklist-service/internal/product/handler"
	realtimeH "github.com/fekuna/omnipos-picklist-service/internal/realtime/handler"
	settingsH "github.com/fekuna/omnipos-picklist-service/internal/settings/handler"
	storeH "github.com/fekuna/omnipos-picklist-service/internal/store/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Config struct {
	AppEnv       string
	Version      string
	AllowOrigins []string
	// Ping backs /api/health; nil reports healthy.
	Ping func(ctx context.Context) error
}

// Handlers holds the domain handlers to mount. Nil entries are skipped.
type Handlers struct {
	Store    *storeH.StoreHandler
	Category *categoryH.CategoryHandler
	Product  *productH.ProductHandler
	Order    *orderH.OrderHandler
	Settings *settingsH.SettingsHandler
	Image    *imageH.ImageHandler
	Events   *realtimeH.EventsHandler
}

// NewRouter builds the engine. Under /api every request may carry a session;
// store routes need one scoped to a store and /api/admin needs an admin.
func NewRouter(cfg *Config, tokens *auth.TokenManager, h *Handlers, log logger.ZapLogger) *gin.Engine {
	if cfg.AppEnv != "dev" && cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(Recovery(log), RequestLogger(log), cors.New(corsConfig(cfg.AllowOrigins)))

	api := r.Group("/api", auth.Authenticate(tokens))
	api.GET("/version", versionHandler(cfg.Version))
	api.GET("/health", healthHandler(cfg.Ping))

	if h.Store != nil {
		h.Store.RegisterPublic(api)
	}
	if h.Settings != nil {
		h.Settings.RegisterPublic(api)
	}
	if h.Image != nil {
		h.Image.Register(api)
	}

	storeGroup := api.Group("", auth.RequireStore())
	if h.Category != nil {
		h.Category.Register(storeGroup)
	}
	if h.Product != nil {
		h.Product.Register(storeGroup)
	}
	if h.Order != nil {
		h.Order.Register(storeGroup)
	}
	if h.Events != nil {
		h.Events.Register(storeGroup)
	}

	admin := api.Group("/admin", auth.RequireAdmin())
	if h.Store != nil {
		h.Store.RegisterAdmin(admin)
	}
	if h.Category != nil {
		h.Category.Register(admin)
	}
	if h.Settings != nil {
		h.Settings.RegisterAdmin(admin)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

func versionHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"version": version})
	}
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
