package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthHandler answers liveness and database health checks.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz reports process liveness.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// DB reports database connectivity.
func (h *HealthHandler) DB(c echo.Context) error {
	var version string
	if err := h.db.WithContext(c.Request().Context()).
		Raw("SELECT VERSION()").Scan(&version).Error; err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"connected": false,
			"message":   "cannot connect to database",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"connected": true,
		"version":   version,
		"message":   "database connection successful",
	})
}
