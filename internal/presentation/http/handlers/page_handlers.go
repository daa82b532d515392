// Package handlers provides HTTP handlers for the page builder API
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
)

// CreatePageRequest represents the request body for creating a page
type CreatePageRequest struct {
	Title    string         `json:"title" binding:"required"`
	Slug     string         `json:"slug" binding:"required"`
	Document *page.Document `json:"document,omitempty"`
}

// PageHandlers contains page management handlers
type PageHandlers struct {
	pageService   *services.PageService
	editorService *services.EditorService
	logger        *logging.ChanneledLogger
}

// NewPageHandlers creates page handlers with injected dependencies
func NewPageHandlers(pageService *services.PageService, editorService *services.EditorService, logger *logging.ChanneledLogger) *PageHandlers {
	return &PageHandlers{
		pageService:   pageService,
		editorService: editorService,
		logger:        logger,
	}
}

// GetAllPages lists every page without its document
func (h *PageHandlers) GetAllPages(c *gin.Context) {
	pages, err := h.pageService.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pages": pages,
		"count": len(pages),
	})
}

// GetPage returns one page with its saved draft
func (h *PageHandlers) GetPage(c *gin.Context) {
	p, err := h.pageService.GetByID(c.Param("pageId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePage stores a new page
func (h *PageHandlers) CreatePage(c *gin.Context) {
	start := time.Now()
	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	var doc page.Document
	if req.Document != nil {
		doc = *req.Document
	}
	p, err := h.pageService.Create(req.Title, req.Slug, doc)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Editor().Info("Page created", "pageId", p.ID, "slug", p.Slug, "duration", time.Since(start))
	c.JSON(http.StatusCreated, p)
}

// DeletePage closes any open session and removes the page with its versions
func (h *PageHandlers) DeletePage(c *gin.Context) {
	pageID := c.Param("pageId")
	if err := h.editorService.Close(c.Request.Context(), pageID); err != nil && !errors.Is(err, services.ErrSessionNotFound) {
		respondError(c, err)
		return
	}
	if err := h.pageService.Delete(pageID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Editor().Info("Page deleted", "pageId", pageID)
	c.JSON(http.StatusOK, gin.H{"deleted": pageID})
}
