// Package api exposes the status workflow over HTTP.
package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/cache"
	"github.com/shipnotes/shipnotes/internal/notify"
	"github.com/shipnotes/shipnotes/internal/server"
	"github.com/shipnotes/shipnotes/internal/services/event"
	"github.com/shipnotes/shipnotes/internal/services/status"
	"github.com/shipnotes/shipnotes/internal/theme"
)

// Pinger reports database liveness
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything the handlers need
type Deps struct {
	Statuses  status.Service
	Events    event.Service
	Columns   cache.ColumnSource // Usually the Redis column cache
	Themes    theme.Provider
	Reloader  theme.Reloader   // nil when the manifest is static
	Publisher notify.Publisher // Receives theme reload changes
	DB        Pinger
	Metrics   *server.Metrics
	Hub       *server.Hub
	Logger    log.FieldLogger

	MaxBodyBytes int64
	CORSOrigins  []string
}

// Register wires middleware and all API routes on the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	if d.Logger == nil {
		d.Logger = log.StandardLogger()
	}
	if d.Columns == nil {
		d.Columns = d.Statuses
	}
	logger := d.Logger.WithField("component", "api")

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.HTTPErrorHandler = HTTPErrorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(RequestObservability(logger, d.Metrics))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderContentEncoding},
	}))
	e.Use(GzipRequestMiddleware())

	h := &handlers{Deps: d, log: logger}

	e.GET("/healthz", h.healthz)
	e.GET("/api/metrics", h.metrics)

	e.GET("/api/statuses", h.listStatuses)
	e.POST("/api/statuses", h.createStatus)
	e.GET("/api/statuses/:id", h.getStatus)
	e.PATCH("/api/statuses/:id", h.renameStatus)
	e.DELETE("/api/statuses/:id", h.deleteStatus)
	e.POST("/api/statuses/:id/reorder", h.reorderStatus)
	e.GET("/api/statuses/:id/category", h.getCategoryMapping)
	e.PUT("/api/statuses/:id/category", h.setCategoryMapping)
	e.DELETE("/api/statuses/:id/category", h.clearCategoryMapping)
	e.GET("/api/mappings", h.listMappings)
	e.GET("/api/columns", h.listColumns)

	e.GET("/api/categories", h.listCategories)
	e.POST("/api/theme/reload", h.reloadTheme)

	e.GET("/api/events", h.listEvents)
	e.POST("/api/events", h.createEvent)
	e.GET("/api/events/:id", h.getEvent)
	e.PATCH("/api/events/:id", h.updateEvent)
	e.DELETE("/api/events/:id", h.deleteEvent)
	e.PUT("/api/events/:id/status", h.moveEvent)

	e.GET("/api/changes", h.streamChanges)
}

type handlers struct {
	Deps
	log log.FieldLogger
}
