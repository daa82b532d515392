// Package content defines the persisted page and version records.
package content

import (
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// PageNode is a page's saved draft.
type PageNode struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	NodeType string        `json:"nodeType"`
	Slug     string        `json:"slug"`
	Document page.Document `json:"document"`
	// Digest identifies the draft's canonical document bytes.
	Digest  string     `json:"digest"`
	Created time.Time  `json:"created"`
	Changed *time.Time `json:"changed,omitempty"`
}

// PageSummary is the listing view of a page, without its document.
type PageSummary struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Slug    string     `json:"slug"`
	Digest  string     `json:"digest"`
	Created time.Time  `json:"created"`
	Changed *time.Time `json:"changed,omitempty"`
}

// VersionNode describes a named snapshot of a page.
type VersionNode struct {
	ID       string    `json:"id"`
	PageID   string    `json:"pageId"`
	NodeType string    `json:"nodeType"`
	Name     string    `json:"name"`
	Digest   string    `json:"digest"`
	Size     int       `json:"size"`
	Created  time.Time `json:"created"`
}

// Version is a snapshot together with its decoded document.
type Version struct {
	VersionNode
	Document page.Document `json:"document"`
}

// Node type labels carried on the wire.
const (
	NodeTypePage    = "Page"
	NodeTypeVersion = "Version"
)
