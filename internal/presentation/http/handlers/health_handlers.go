package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/persistence/database"
)

// HealthHandlers reports process health
type HealthHandlers struct {
	db            *database.DB
	editorService *services.EditorService
	cache         interfaces.FragmentCache
	perfTracker   *performance.Tracker
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(db *database.DB, editorService *services.EditorService, cache interfaces.FragmentCache, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		db:            db,
		editorService: editorService,
		cache:         cache,
		perfTracker:   perfTracker,
	}
}

// GetHealth checks the database and summarizes in-memory state
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code, dbStatus := "ok", http.StatusOK, "ok"
	if err := database.TestConnection(ctx, h.db.DB); err != nil {
		status, code, dbStatus = "degraded", http.StatusServiceUnavailable, err.Error()
	}

	c.JSON(code, gin.H{
		"status":       status,
		"database":     dbStatus,
		"driver":       h.db.Driver,
		"openSessions": h.editorService.OpenCount(),
		"renderCache":  h.cache.Summary(),
		"performance":  h.perfTracker.GetOverallStats(),
	})
}

// GetPerformance returns per-operation timings and recent slow-operation alerts.
// The optional pageId query narrows the alerts.
func (h *HealthHandlers) GetPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"operations": h.perfTracker.Stats(),
		"alerts":     h.perfTracker.GetAlerts(c.Query("pageId")),
		"overall":    h.perfTracker.GetOverallStats(),
	})
}
