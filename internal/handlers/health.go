package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports storage reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	storage Pinger
	backend string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage Pinger, backend string) *HealthHandler {
	return &HealthHandler{storage: storage, backend: backend}
}

// HealthResponse is the response for basic health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StorageHealthResponse is the response for storage health check
type StorageHealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// StorageHealth handles GET /health/storage
func (h *HealthHandler) StorageHealth(c echo.Context) error {
	if h.storage == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_configured",
			"error":  "Storage is not configured",
		})
	}

	if err := h.storage.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, StorageHealthResponse{
		Status:   "connected",
		Database: h.backend,
	})
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.GET("/health/storage", h.StorageHealth)
}
