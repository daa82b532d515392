// Package rendering provides domain entities for HTML rendering operations
package rendering

import "github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"

// Mode selects between the editor canvas output and the read-only output.
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeInert       Mode = "inert"
)

// ParseMode maps a request value onto a mode, defaulting to inert.
func ParseMode(s string) Mode {
	if Mode(s) == ModeInteractive {
		return ModeInteractive
	}
	return ModeInert
}

// SlideIndexer supplies the active slide of a timed component. Implementations
// hold transient state that never enters the document.
type SlideIndexer interface {
	Index(nodeID string, count int) int
}

// RenderContext provides the context for HTML rendering operations
type RenderContext struct {
	Mode       Mode            `json:"mode"`
	Breakpoint page.Breakpoint `json:"breakpoint"`
	SelectedID string          `json:"selectedId,omitempty"`
	Slides     SlideIndexer    `json:"-"`
}

// Interactive reports whether editor decorations are emitted.
func (c *RenderContext) Interactive() bool {
	return c != nil && c.Mode == ModeInteractive
}

// ActiveSlide returns the slide to show for a timed node, always within [0, count).
func (c *RenderContext) ActiveSlide(nodeID string, count int) int {
	if count <= 0 || c == nil || c.Slides == nil {
		return 0
	}
	i := c.Slides.Index(nodeID, count)
	if i < 0 || i >= count {
		return 0
	}
	return i
}
