package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/cache"
)

// CacheHandler exposes cache maintenance operations
type CacheHandler struct {
	cache  *cache.Cache
	logger ectologger.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(responseCache *cache.Cache, logger ectologger.Logger) *CacheHandler {
	return &CacheHandler{
		cache:  responseCache,
		logger: logger,
	}
}

// RegisterRoutes registers cache routes
func (h *CacheHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/cache", h.Stats)
	g.DELETE("/cache", h.Clear)
}

// Stats reports cache entry count and hit/miss counters
func (h *CacheHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.cache.Stats(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to read cache stats")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to read cache stats")
	}

	return SuccessResponse(c, stats)
}

// Clear drops all cached CRM responses
func (h *CacheHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	cleared, err := h.cache.Clear(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to clear cache")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear cache")
	}

	return SuccessResponse(c, map[string]any{"cleared": cleared})
}
