package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/pagebuilder-go/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/editor"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/performance"
)

// IntentsRequest carries one or more wire commands applied in order.
type IntentsRequest struct {
	Commands []editor.Command `json:"commands" binding:"required,min=1"`
}

// SaveVersionRequest names a version snapshot.
type SaveVersionRequest struct {
	Name string `json:"name"`
}

// EditorHandlers contains editor session handlers
type EditorHandlers struct {
	editorService *services.EditorService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewEditorHandlers creates editor handlers with injected dependencies
func NewEditorHandlers(editorService *services.EditorService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EditorHandlers {
	return &EditorHandlers{
		editorService: editorService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

func (h *EditorHandlers) respondState(c *gin.Context, pageID string, st editor.State) {
	c.JSON(http.StatusOK, services.NewStateView(pageID, st))
}

// OpenSession opens the page's editor session, or joins the one already open
func (h *EditorHandlers) OpenSession(c *gin.Context) {
	pageID := c.Param("pageId")
	sess, err := h.editorService.Open(c.Request.Context(), pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c, pageID, sess.State())
}

// CloseSession flushes and closes the page's editor session
func (h *EditorHandlers) CloseSession(c *gin.Context) {
	pageID := c.Param("pageId")
	if err := h.editorService.Close(c.Request.Context(), pageID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": pageID})
}

// GetState returns the session's current state
func (h *EditorHandlers) GetState(c *gin.Context) {
	pageID := c.Param("pageId")
	st, err := h.editorService.State(pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c, pageID, st)
}

// PostIntents decodes every command before applying any of them
func (h *EditorHandlers) PostIntents(c *gin.Context) {
	pageID := c.Param("pageId")
	marker := h.perfTracker.StartOperation(performance.OpIntents, pageID)
	defer h.perfTracker.CompleteOperation(marker)

	var req IntentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	intents := make([]editor.Intent, 0, len(req.Commands))
	for _, cmd := range req.Commands {
		in, err := editor.DecodeIntent(cmd)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": cmd.Type})
			return
		}
		intents = append(intents, in)
	}

	var st editor.State
	for _, in := range intents {
		var err error
		if st, err = h.editorService.Dispatch(c.Request.Context(), pageID, in); err != nil {
			marker.SetError(err)
			respondError(c, err)
			return
		}
	}

	marker.Complete()
	marker.AddMetadata("count", len(intents))
	h.logger.Editor().Debug("Intents applied", "pageId", pageID, "count", len(intents), "duration", marker.Duration)
	h.respondState(c, pageID, st)
}

// PostUndo steps back one history entry
func (h *EditorHandlers) PostUndo(c *gin.Context) {
	h.dispatch(c, editor.Undo{})
}

// PostRedo steps forward one history entry
func (h *EditorHandlers) PostRedo(c *gin.Context) {
	h.dispatch(c, editor.Redo{})
}

func (h *EditorHandlers) dispatch(c *gin.Context, in editor.Intent) {
	pageID := c.Param("pageId")
	st, err := h.editorService.Dispatch(c.Request.Context(), pageID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c, pageID, st)
}

// PostSave persists the draft without waiting for autosave
func (h *EditorHandlers) PostSave(c *gin.Context) {
	pageID := c.Param("pageId")
	st, err := h.editorService.Save(c.Request.Context(), pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c, pageID, st)
}

// GetVersions lists saved versions, newest first
func (h *EditorHandlers) GetVersions(c *gin.Context) {
	versions, err := h.editorService.ListVersions(c.Param("pageId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"versions": versions,
		"count":    len(versions),
	})
}

// PostVersion saves the session's document as a named version
func (h *EditorHandlers) PostVersion(c *gin.Context) {
	var req SaveVersionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	v, err := h.editorService.SaveVersion(c.Request.Context(), c.Param("pageId"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// PostRevert loads a saved version into the session
func (h *EditorHandlers) PostRevert(c *gin.Context) {
	pageID := c.Param("pageId")
	st, err := h.editorService.RevertToVersion(c.Request.Context(), pageID, c.Param("versionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c, pageID, st)
}

// PostGenerate hydrates layout descriptors onto the canvas
func (h *EditorHandlers) PostGenerate(c *gin.Context) {
	pageID := c.Param("pageId")
	marker := h.perfTracker.StartOperation(performance.OpGenerate, pageID)
	defer h.perfTracker.CompleteOperation(marker)

	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	st, err := h.editorService.Generate(c.Request.Context(), pageID, req)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	h.respondState(c, pageID, st)
}
