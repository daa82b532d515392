// Package repositories defines the repository interfaces for page entities.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the database.
package repositories

import (
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// PageRepository persists page drafts. FindByID returns nil, nil for a missing page.
type PageRepository interface {
	FindByID(id string) (*content.PageNode, error)
	FindBySlug(slug string) (*content.PageNode, error)
	FindAll() ([]*content.PageSummary, error)
	Store(p *content.PageNode) error
	SaveDraft(id string, doc page.Document) (*content.PageNode, error)
	Delete(id string) error
}

// VersionRepository persists named document snapshots. FindByID returns nil, nil
// for a missing version.
type VersionRepository interface {
	Create(pageID, name string, doc page.Document) (*content.VersionNode, error)
	FindByID(pageID, versionID string) (*content.Version, error)
	FindByPageID(pageID string) ([]*content.VersionNode, error)
	Delete(pageID, versionID string) error
}
