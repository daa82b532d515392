// Package types defines the cache entry types
package types

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
)

// PageHTMLCache holds the rendered fragments of a single page
type PageHTMLCache struct {
	Chunks map[string]*HTMLChunk // "digest:variant" -> chunk
	Mu     sync.RWMutex
}

// FragmentVariant selects one of the outputs a page can be rendered to
type FragmentVariant struct {
	Breakpoint page.Breakpoint `json:"breakpoint"`
	Mode       rendering.Mode  `json:"mode"`
	// Document marks a full standalone page rather than the canvas body.
	Document bool `json:"document,omitempty"`
}

// HTMLChunk represents cached HTML rendered from one draft digest
type HTMLChunk struct {
	HTML        string          `json:"html"`
	PageID      string          `json:"pageId"`
	Digest      string          `json:"digest"`
	Variant     FragmentVariant `json:"variant"`
	LastUpdated time.Time       `json:"lastUpdated"`
}
