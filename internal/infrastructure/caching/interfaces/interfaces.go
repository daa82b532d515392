// Package interfaces defines cache operation contracts.
package interfaces

import (
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/types"
)

// FragmentCache defines operations for rendered HTML caching. Entries are keyed
// by the draft digest they were rendered from, so a changed draft never hits a
// stale entry even before it is invalidated.
type FragmentCache interface {
	GetHTMLChunk(pageID, digest string, variant types.FragmentVariant) (*types.HTMLChunk, bool)
	SetHTMLChunk(pageID, digest string, variant types.FragmentVariant, html string)
	InvalidatePage(pageID string)
	PurgeExpiredChunks() int
	Summary() map[string]any
}
