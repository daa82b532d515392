package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/performance"
)

const htmlContentType = "text/html; charset=utf-8"

// RenderHandlers contains canvas, preview and publish handlers
type RenderHandlers struct {
	renderService  *services.RenderService
	publishService *services.PublishService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewRenderHandlers creates render handlers with injected dependencies
func NewRenderHandlers(renderService *services.RenderService, publishService *services.PublishService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *RenderHandlers {
	return &RenderHandlers{
		renderService:  renderService,
		publishService: publishService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

func renderQuery(c *gin.Context, defaultMode rendering.Mode) (rendering.Mode, page.Breakpoint) {
	mode := rendering.ParseMode(c.DefaultQuery("mode", string(defaultMode)))
	return mode, page.ParseBreakpoint(c.DefaultQuery("breakpoint", string(page.Desktop)))
}

// GetRender renders the live session state. Defaults to the editor canvas.
func (h *RenderHandlers) GetRender(c *gin.Context) {
	pageID := c.Param("pageId")
	marker := h.perfTracker.StartOperation(performance.OpRender, pageID)
	defer h.perfTracker.CompleteOperation(marker)

	mode, bp := renderQuery(c, rendering.ModeInteractive)
	res, err := h.renderService.RenderSession(pageID, mode, bp)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	c.Header("X-Revision", strconv.FormatUint(res.Revision, 10))
	c.Data(http.StatusOK, htmlContentType, []byte(res.HTML))
}

// GetPreview renders the saved draft. document=true returns a full HTML page.
func (h *RenderHandlers) GetPreview(c *gin.Context) {
	pageID := c.Param("pageId")
	marker := h.perfTracker.StartOperation(performance.OpPreview, pageID)
	defer h.perfTracker.CompleteOperation(marker)

	mode, bp := renderQuery(c, rendering.ModeInert)
	document, _ := strconv.ParseBool(c.DefaultQuery("document", "false"))

	res, err := h.renderService.Preview(pageID, bp, mode, document)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	marker.CacheHit = res.Cached
	cache := "MISS"
	if res.Cached {
		cache = "HIT"
	}
	c.Header("X-Cache", cache)
	c.Header("X-Digest", res.Digest)
	c.Data(http.StatusOK, htmlContentType, []byte(res.HTML))
}

// PostPublish uploads the saved draft to object storage
func (h *RenderHandlers) PostPublish(c *gin.Context) {
	pageID := c.Param("pageId")
	marker := h.perfTracker.StartOperation(performance.OpPublish, pageID)
	defer h.perfTracker.CompleteOperation(marker)

	res, err := h.publishService.Publish(c.Request.Context(), pageID)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	h.perfTracker.CompleteOperation(marker)
	h.logger.Perf().Info("Performance for PostPublish request", "duration", marker.Duration, "pageId", pageID, "objects", len(res.Objects))
	c.JSON(http.StatusOK, res)
}
