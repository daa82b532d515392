package services

import (
	"fmt"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/repositories"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/presentation/templates"
)

// RenderResult is rendered HTML plus where it came from.
type RenderResult struct {
	HTML       string          `json:"html"`
	Mode       rendering.Mode  `json:"mode"`
	Breakpoint page.Breakpoint `json:"breakpoint"`
	Revision   uint64          `json:"revision,omitempty"`
	Digest     string          `json:"digest,omitempty"`
	Cached     bool            `json:"cached"`
}

// RenderService renders live session state and persisted drafts.
type RenderService struct {
	editor *EditorService
	pages  repositories.PageRepository
	cache  interfaces.FragmentCache
	logger *logging.ChanneledLogger
}

// NewRenderService creates a new render application service
func NewRenderService(editor *EditorService, pages repositories.PageRepository, cache interfaces.FragmentCache, logger *logging.ChanneledLogger) *RenderService {
	return &RenderService{
		editor: editor,
		pages:  pages,
		cache:  cache,
		logger: logger,
	}
}

// RenderSession renders the live state of an open page. Carousels show the slide
// the session's registry currently holds.
func (s *RenderService) RenderSession(pageID string, mode rendering.Mode, bp page.Breakpoint) (*RenderResult, error) {
	sess, err := s.editor.Session(pageID)
	if err != nil {
		return nil, err
	}
	st := sess.State()

	ctx := &rendering.RenderContext{
		Mode:       rendering.ParseMode(string(mode)),
		Breakpoint: page.ParseBreakpoint(string(bp)),
		Slides:     sess.Carousels,
	}
	if ctx.Mode == rendering.ModeInteractive {
		ctx.SelectedID = st.SelectedID
	}

	start := time.Now()
	html := templates.NewNodeRenderer(ctx).RenderDocument(page.Document{Content: st.Document, PageStyles: st.PageStyles})
	s.logger.Render().Debug("Rendered session", "pageId", pageID, "mode", ctx.Mode, "breakpoint", ctx.Breakpoint,
		"revision", st.Revision, "duration", time.Since(start))

	return &RenderResult{HTML: html, Mode: ctx.Mode, Breakpoint: ctx.Breakpoint, Revision: st.Revision}, nil
}

// Preview renders the saved draft, not the live session. Results are cached by
// draft digest, so a new save is never served stale.
func (s *RenderService) Preview(pageID string, bp page.Breakpoint, mode rendering.Mode, document bool) (*RenderResult, error) {
	rec, err := s.pages.FindByID(pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", pageID, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("page %s: %w", pageID, ErrPageNotFound)
	}

	variant := types.FragmentVariant{
		Breakpoint: page.ParseBreakpoint(string(bp)),
		Mode:       rendering.ParseMode(string(mode)),
		Document:   document,
	}
	result := &RenderResult{Mode: variant.Mode, Breakpoint: variant.Breakpoint, Digest: rec.Digest}

	if chunk, ok := s.cache.GetHTMLChunk(pageID, rec.Digest, variant); ok {
		result.HTML = chunk.HTML
		result.Cached = true
		return result, nil
	}

	start := time.Now()
	renderer := templates.NewNodeRenderer(&rendering.RenderContext{Mode: variant.Mode, Breakpoint: variant.Breakpoint})
	if document {
		result.HTML = renderer.RenderPage(rec.Document, rec.Title)
	} else {
		result.HTML = renderer.RenderDocument(rec.Document)
	}
	s.cache.SetHTMLChunk(pageID, rec.Digest, variant, result.HTML)
	s.logger.Render().Debug("Rendered preview", "pageId", pageID, "breakpoint", variant.Breakpoint,
		"digest", rec.Digest, "duration", time.Since(start))
	return result, nil
}
