// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/repositories"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// PageService orchestrates page draft records
type PageService struct {
	pageRepo repositories.PageRepository
}

// NewPageService creates a new page application service
func NewPageService(pageRepo repositories.PageRepository) *PageService {
	return &PageService{
		pageRepo: pageRepo,
	}
}

// GetAll returns a summary of every page
func (s *PageService) GetAll() ([]*content.PageSummary, error) {
	pages, err := s.pageRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all pages: %w", err)
	}
	if pages == nil {
		pages = []*content.PageSummary{}
	}
	return pages, nil
}

// GetByID returns a page by ID
func (s *PageService) GetByID(id string) (*content.PageNode, error) {
	if id == "" {
		return nil, fmt.Errorf("page ID cannot be empty")
	}

	p, err := s.pageRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("page %s: %w", id, ErrPageNotFound)
	}
	return p, nil
}

// GetBySlug returns a page by slug
func (s *PageService) GetBySlug(slug string) (*content.PageNode, error) {
	if slug == "" {
		return nil, fmt.Errorf("page slug cannot be empty")
	}

	p, err := s.pageRepo.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get page by slug %s: %w", slug, err)
	}
	if p == nil {
		return nil, fmt.Errorf("page %s: %w", slug, ErrPageNotFound)
	}
	return p, nil
}

// Create stores a new page with an optional initial document
func (s *PageService) Create(title, slug string, doc page.Document) (*content.PageNode, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPage)
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug %q must be lowercase words joined by dashes", ErrInvalidPage, slug)
	}

	existing, err := s.pageRepo.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: slug %q is already used", ErrInvalidPage, slug)
	}

	p := &content.PageNode{Title: title, Slug: slug, Document: doc.Clone()}
	if err := s.pageRepo.Store(p); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return p, nil
}

// Delete removes a page and its versions
func (s *PageService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.pageRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete page %s: %w", id, err)
	}
	return nil
}
