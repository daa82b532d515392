// Package carousel holds the transient slide state of timed components. Nothing
// here is part of the document or its history.
package carousel

import (
	"context"
	"sync"
	"time"
)

// Carousel is the Idle(index) state machine of one timed component. Each tick
// advances index modulo the slide count unless the component is paused.
type Carousel struct {
	mu             sync.Mutex
	index          int
	count          int
	hovering       bool
	selectedInside bool
	interactive    bool
}

// New creates a carousel at index 0. Selection only pauses interactive carousels.
func New(count int, interactive bool) *Carousel {
	if count < 0 {
		count = 0
	}
	return &Carousel{count: count, interactive: interactive}
}

// Index returns the active slide.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Count returns the number of slides.
func (c *Carousel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// SetCount updates the slide count, wrapping the index back to 0 when it falls
// outside the new range.
func (c *Carousel) SetCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.count = n
	if c.index >= n {
		c.index = 0
	}
}

// SetHover records whether the pointer is over the component.
func (c *Carousel) SetHover(hovering bool) {
	c.mu.Lock()
	c.hovering = hovering
	c.mu.Unlock()
}

// SetSelectionInside records whether the selected node is the component or one
// of its descendants.
func (c *Carousel) SetSelectionInside(inside bool) {
	c.mu.Lock()
	c.selectedInside = inside
	c.mu.Unlock()
}

// Paused reports whether ticks are currently ignored.
func (c *Carousel) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused()
}

func (c *Carousel) paused() bool {
	return c.hovering || (c.interactive && c.selectedInside)
}

// Tick advances to the next slide and reports whether the index changed.
func (c *Carousel) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count <= 1 || c.paused() {
		return false
	}
	c.index = (c.index + 1) % c.count
	return true
}

// Run ticks every interval until ctx is cancelled or the slide count drops to one
// or fewer. onAdvance receives the new index after every advance.
func (c *Carousel) Run(ctx context.Context, interval time.Duration, onAdvance func(index int)) {
	if interval <= 0 || c.Count() <= 1 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.Count() <= 1 {
				return
			}
			if c.Tick() && onAdvance != nil {
				onAdvance(c.Index())
			}
		}
	}
}
