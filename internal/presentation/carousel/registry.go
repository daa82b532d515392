package carousel

import (
	"context"
	"sync"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/tree"
)

// TickFunc is notified whenever a running carousel advances.
type TickFunc func(nodeID string, index int)

type entry struct {
	carousel *Carousel
	interval time.Duration
	running  bool
	cancel   context.CancelFunc
}

// Registry keeps one carousel per timed node of a render session and supplies
// their indexes to the renderer.
type Registry struct {
	mu              sync.Mutex
	interactive     bool
	defaultInterval time.Duration
	items           map[string]*entry

	ctx    context.Context
	onTick TickFunc
}

// NewRegistry creates an empty registry. defaultInterval applies to nodes whose
// content sets no interval.
func NewRegistry(interactive bool, defaultInterval time.Duration) *Registry {
	return &Registry{
		interactive:     interactive,
		defaultInterval: defaultInterval,
		items:           make(map[string]*entry),
	}
}

// Sync reconciles the registry with a document: timed nodes gain a carousel,
// counts and selection flags are refreshed and carousels of removed nodes stop.
func (r *Registry) Sync(nodes []*page.Node, selectedID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	tree.Each(nodes, func(n *page.Node, _ tree.Location) {
		if !n.Kind.IsTimed() {
			return
		}
		seen[n.ID] = true

		count, intervalMs := slideCount(n)
		interval := r.defaultInterval
		if intervalMs > 0 {
			interval = time.Duration(intervalMs) * time.Millisecond
		}

		e, ok := r.items[n.ID]
		if !ok {
			e = &entry{carousel: New(count, r.interactive)}
			r.items[n.ID] = e
		}
		e.carousel.SetCount(count)
		e.carousel.SetSelectionInside(selectedID != "" && tree.Contains([]*page.Node{n}, selectedID))

		if e.running && e.interval != interval {
			e.cancel()
			e.running = false
		}
		e.interval = interval
		r.launch(n.ID, e)
	})

	for id, e := range r.items {
		if seen[id] {
			continue
		}
		if e.running {
			e.cancel()
		}
		delete(r.items, id)
	}
}

// Index implements the renderer's slide lookup. Unknown nodes show slide 0.
func (r *Registry) Index(nodeID string, count int) int {
	r.mu.Lock()
	e, ok := r.items[nodeID]
	r.mu.Unlock()
	if !ok {
		return 0
	}
	i := e.carousel.Index()
	if i >= count {
		return 0
	}
	return i
}

// SetHover pauses or resumes one carousel.
func (r *Registry) SetHover(nodeID string, hovering bool) {
	r.mu.Lock()
	e, ok := r.items[nodeID]
	r.mu.Unlock()
	if ok {
		e.carousel.SetHover(hovering)
	}
}

// Len returns the number of tracked carousels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Start runs every carousel with more than one slide until ctx ends. Carousels
// added by later syncs start automatically.
func (r *Registry) Start(ctx context.Context, onTick TickFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx = ctx
	r.onTick = onTick
	for id, e := range r.items {
		r.launch(id, e)
	}
}

// launch starts e's runner when the registry is started and e is idle. Callers
// hold r.mu.
func (r *Registry) launch(id string, e *entry) {
	if r.ctx == nil || r.ctx.Err() != nil || e.running || e.interval <= 0 || e.carousel.Count() <= 1 {
		return
	}
	ctx, cancel := context.WithCancel(r.ctx)
	e.running = true
	e.cancel = cancel
	onTick := r.onTick
	interval := e.interval

	go func() {
		defer cancel()
		e.carousel.Run(ctx, interval, func(index int) {
			if onTick != nil {
				onTick(id, index)
			}
		})
		// A sync may have raised the count again while this runner was
		// stopping and skipped the launch because running was still set.
		r.mu.Lock()
		if r.items[id] == e && ctx.Err() == nil {
			e.running = false
			r.launch(id, e)
		}
		r.mu.Unlock()
	}()
}

func slideCount(n *page.Node) (count, intervalMs int) {
	switch n.Kind {
	case page.KindImageCarousel, page.KindHeroSlider:
		c := page.ParseAs[page.SlidesContent](n.Content)
		return len(c.Slides), c.IntervalMs
	default:
		c := page.ParseAs[page.AutoScrollContent](n.Content)
		return len(n.Children), c.IntervalMs
	}
}
