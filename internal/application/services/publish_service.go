package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/repositories"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/storage"
	"github.com/AtRiskMedia/pagebuilder-go/internal/presentation/templates"
)

// PublishResult lists the objects written for one publish.
type PublishResult struct {
	PageID    string            `json:"pageId"`
	Slug      string            `json:"slug"`
	Digest    string            `json:"digest"`
	Objects   []*storage.Object `json:"objects"`
	Published time.Time         `json:"published"`
}

type publishManifest struct {
	PageID      string                     `json:"pageId"`
	Title       string                     `json:"title"`
	Digest      string                     `json:"digest"`
	Published   time.Time                  `json:"published"`
	Breakpoints map[page.Breakpoint]string `json:"breakpoints"`
}

// PublishService renders a saved draft as inert HTML for every breakpoint and
// uploads the files with a manifest.
type PublishService struct {
	pages     repositories.PageRepository
	publisher storage.Publisher
	timeout   time.Duration
	logger    *logging.ChanneledLogger
}

// NewPublishService creates a new publish application service
func NewPublishService(pages repositories.PageRepository, publisher storage.Publisher, timeout time.Duration, logger *logging.ChanneledLogger) *PublishService {
	return &PublishService{
		pages:     pages,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
	}
}

// Publish uploads {prefix}/pages/{slug}/{breakpoint}.html for each breakpoint and
// then manifest.json. The manifest goes last so readers never see a manifest
// pointing at missing files.
func (s *PublishService) Publish(ctx context.Context, pageID string) (*PublishResult, error) {
	rec, err := s.pages.FindByID(pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", pageID, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("page %s: %w", pageID, ErrPageNotFound)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	result := &PublishResult{PageID: rec.ID, Slug: rec.Slug, Digest: rec.Digest, Published: start.UTC()}
	manifest := publishManifest{
		PageID:      rec.ID,
		Title:       rec.Title,
		Digest:      rec.Digest,
		Published:   result.Published,
		Breakpoints: make(map[page.Breakpoint]string),
	}

	for _, bp := range page.Breakpoints {
		renderer := templates.NewNodeRenderer(&rendering.RenderContext{Mode: rendering.ModeInert, Breakpoint: bp})
		html := renderer.RenderPage(rec.Document, rec.Title)

		key := s.publisher.PageKey(rec.Slug, storage.BreakpointFile(bp))
		obj, err := s.publisher.Put(ctx, key, []byte(html), "text/html; charset=utf-8")
		if err != nil {
			s.logger.LogError(logging.ChannelPublish, "publish", err, pageID, map[string]any{"key": key})
			return nil, fmt.Errorf("failed to publish %s: %w", bp, err)
		}
		result.Objects = append(result.Objects, obj)
		manifest.Breakpoints[bp] = key
	}

	body, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	obj, err := s.publisher.Put(ctx, s.publisher.PageKey(rec.Slug, "manifest.json"), body, "application/json")
	if err != nil {
		s.logger.LogError(logging.ChannelPublish, "publish", err, pageID, map[string]any{"key": "manifest.json"})
		return nil, fmt.Errorf("failed to publish manifest: %w", err)
	}
	result.Objects = append(result.Objects, obj)

	s.logger.Publish().Info("Page published", "pageId", pageID, "slug", rec.Slug, "digest", rec.Digest,
		"objects", len(result.Objects), "duration", time.Since(start))
	return result, nil
}
