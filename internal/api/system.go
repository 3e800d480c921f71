package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/shipnotes/shipnotes/internal/notify"
	"github.com/shipnotes/shipnotes/internal/theme"
)

// keepAliveInterval spaces comment frames on idle change streams
var keepAliveInterval = 25 * time.Second

type categoriesResponse struct {
	Theme      string           `json:"theme"`
	Version    string           `json:"version,omitempty"`
	Categories []theme.Category `json:"categories"`
}

func (h *handlers) healthz(c echo.Context) error {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			h.log.WithError(err).Warn("health check failed")
			return respondError(c, http.StatusServiceUnavailable, "unavailable", "database unavailable")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) metrics(c echo.Context) error {
	if h.Metrics == nil {
		return respondError(c, http.StatusNotFound, "not_found", "metrics disabled")
	}
	return c.JSON(http.StatusOK, h.Metrics.GetSnapshot())
}

func (h *handlers) listCategories(c echo.Context) error {
	var m *theme.Manifest
	if h.Themes != nil {
		m = h.Themes.Manifest()
	}
	resp := categoriesResponse{Categories: []theme.Category{}}
	if m != nil {
		resp.Theme = m.Name
		resp.Version = m.Version
		resp.Categories = m.Categories
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) reloadTheme(c echo.Context) error {
	if h.Reloader == nil {
		return respondError(c, http.StatusConflict, "static_theme", "theme manifest is not file backed")
	}
	if err := h.Reloader.Reload(); err != nil {
		h.log.WithError(err).Warn("theme reload failed; keeping previous manifest")
		return respondError(c, http.StatusUnprocessableEntity, "invalid_manifest", err.Error())
	}
	ctx := c.Request().Context()
	_ = notify.PublishWithRetry(ctx, h.Publisher, notify.Change{Type: notify.ThemeReloaded}, 1, h.log)
	return h.listCategories(c)
}

// streamChanges relays committed changes as server-sent events until the
// client disconnects or the server shuts down.
func (h *handlers) streamChanges(c echo.Context) error {
	if h.Hub == nil {
		return respondError(c, http.StatusServiceUnavailable, "unavailable", "change stream disabled")
	}

	changes, cancel := h.Hub.Subscribe()
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			data, err := sonic.Marshal(change)
			if err != nil {
				h.log.WithError(err).Warn("failed to encode change")
				continue
			}
			if _, err := fmt.Fprintf(res, "id: %d\nevent: %s\ndata: %s\n\n", change.SequenceID, change.Type, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
