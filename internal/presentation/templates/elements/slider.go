package templates

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// DefaultIntervalMs is the slide period used when content does not set one.
const DefaultIntervalMs = 5000

var sliderTmpl = template.Must(template.New("slider").Parse(
	`{{define "slider"}}<div {{.Attrs}} data-slider="{{.Variant}}" data-active-index="{{.Active}}" data-slide-count="{{.Count}}" data-interval="{{.Interval}}">{{.Body}}</div>{{end}}` +
		`{{define "track"}}<div class="pb-slider-track" style="{{.}}">{{end}}` +
		`{{define "slide"}}<div class="pb-slide{{if .Active}} pb-slide-active{{end}}" data-slide-index="{{.Index}}"{{if not .Active}} aria-hidden="true"{{end}} style="{{.Style}}">{{.Body}}</div>{{end}}` +
		`{{define "carouselImage"}}{{if .Href}}<a href="{{.Href}}">{{end}}<img src="{{.Src}}" alt="{{.Alt}}" style="display: block; width: 100%; height: auto; object-fit: cover">{{if .Href}}</a>{{end}}{{end}}` +
		`{{define "heroSlide"}}<div class="pb-hero-slide" style="{{.Background}}position: relative; min-height: 420px; background-size: cover; background-position: center; display: flex; flex-direction: column; justify-content: flex-end; padding: 48px">` +
		`{{if .Title}}<h2>{{.Title}}</h2>{{end}}{{if .Subtitle}}<p>{{.Subtitle}}</p>{{end}}{{if .Href}}<a class="pb-hero-slide-link" href="{{.Href}}">Learn more</a>{{end}}</div>{{end}}` +
		`{{define "dots"}}<div class="pb-slider-dots" style="display: flex; justify-content: center; gap: 8px; margin-top: 12px">{{range .}}<span class="pb-slider-dot{{if .Active}} pb-slider-dot-active{{end}}" data-slide-index="{{.Index}}"></span>{{end}}</div>{{end}}`,
))

type sliderData struct {
	Attrs    template.HTMLAttr
	Variant  string
	Active   int
	Count    int
	Interval int
	Body     template.HTML
}

type slideData struct {
	Index  int
	Active bool
	Style  template.CSS
	Body   template.HTML
}

type slideImageData struct {
	Src        string
	Alt        string
	Href       string
	Title      string
	Subtitle   string
	Background template.CSS
}

type dotData struct {
	Index  int
	Active bool
}

// SliderRenderer renders the timed kinds. The active index comes from the render
// context and is never read from or written to the document.
type SliderRenderer struct {
	nodeRenderer NodeRenderer
}

// NewSliderRenderer creates a new slider renderer
func NewSliderRenderer(nodeRenderer NodeRenderer) *SliderRenderer {
	return &SliderRenderer{nodeRenderer: nodeRenderer}
}

func (r *SliderRenderer) Render(n *page.Node) string {
	switch n.Kind {
	case page.KindImageCarousel, page.KindHeroSlider:
		return r.renderSlides(n)
	default:
		return r.renderChildren(n)
	}
}

// renderChildren cycles through the node's children. auto-scroll keeps every child
// in a horizontal strip and offsets it to the active one; single-auto-scroll shows
// only the active child. The editor canvas gets the same layout, with drop targets
// inside the slide wrappers.
func (r *SliderRenderer) renderChildren(n *page.Node) string {
	ctx := r.nodeRenderer.Context()
	c := page.ParseAs[page.AutoScrollContent](n.Content)
	count := len(n.Children)
	active := ctx.ActiveSlide(n.ID, count)
	strip := n.Kind == page.KindAutoScroll

	var body bytes.Buffer
	if count == 0 {
		body.WriteString(r.nodeRenderer.DropIndicator(n.ID, 0))
	}
	if strip {
		track := fmt.Sprintf("display: flex; flex-wrap: nowrap; transition: transform 0.6s ease; transform: translateX(-%d%%)", active*100)
		body.WriteString(execute(sliderTmpl, "track", template.CSS(track), n.ID))
	}
	for i, child := range n.Children {
		style := template.CSS("")
		switch {
		case strip:
			style = "flex: 0 0 100%; min-width: 0"
		case i != active:
			style = "display: none"
		}
		inner := r.nodeRenderer.DropIndicator(n.ID, i) + r.nodeRenderer.RenderNode(child)
		if i == count-1 {
			inner += r.nodeRenderer.DropIndicator(n.ID, count)
		}
		body.WriteString(execute(sliderTmpl, "slide", slideData{
			Index:  i,
			Active: i == active,
			Style:  style,
			Body:   template.HTML(inner),
		}, n.ID))
	}
	if strip {
		body.WriteString(`</div>`)
	}

	return execute(sliderTmpl, "slider", sliderData{
		Attrs:    r.nodeRenderer.Attrs(n, "position: relative; overflow: hidden"),
		Variant:  string(n.Kind),
		Active:   active,
		Count:    count,
		Interval: interval(c.IntervalMs),
		Body:     template.HTML(body.String()),
	}, n.ID)
}

// renderSlides renders slides parsed from content: image-carousel and hero-slider.
func (r *SliderRenderer) renderSlides(n *page.Node) string {
	ctx := r.nodeRenderer.Context()
	c := page.ParseAs[page.SlidesContent](n.Content)
	count := len(c.Slides)
	active := ctx.ActiveSlide(n.ID, count)

	var body bytes.Buffer
	dots := make([]dotData, 0, count)
	for i, s := range c.Slides {
		data := slideImageData{
			Src:      SafeURL(s.Image),
			Alt:      s.Title,
			Title:    s.Title,
			Subtitle: s.Subtitle,
		}
		if s.Href != "" && SafeURL(s.Href) != "#" {
			data.Href = s.Href
		}

		var inner string
		if n.Kind == page.KindHeroSlider {
			if bg, ok := cssURL(s.Image); ok {
				data.Background = template.CSS("background-image: " + bg + "; ")
			}
			inner = execute(sliderTmpl, "heroSlide", data, n.ID)
		} else {
			inner = execute(sliderTmpl, "carouselImage", data, n.ID)
		}

		style := template.CSS("")
		if i != active {
			style = "display: none"
		}
		body.WriteString(execute(sliderTmpl, "slide", slideData{
			Index:  i,
			Active: i == active,
			Style:  style,
			Body:   template.HTML(inner),
		}, n.ID))
		dots = append(dots, dotData{Index: i, Active: i == active})
	}
	if count > 1 {
		body.WriteString(execute(sliderTmpl, "dots", dots, n.ID))
	}

	return execute(sliderTmpl, "slider", sliderData{
		Attrs:    r.nodeRenderer.Attrs(n, "position: relative; overflow: hidden"),
		Variant:  string(n.Kind),
		Active:   active,
		Count:    count,
		Interval: interval(c.IntervalMs),
		Body:     template.HTML(body.String()),
	}, n.ID)
}

func interval(ms int) int {
	if ms <= 0 {
		return DefaultIntervalMs
	}
	return ms
}
