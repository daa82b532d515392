package templates

import (
	"bytes"
	"html/template"
	"log"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var splitTemplates = template.Must(template.New("splitSection").Parse(
	`{{define "open"}}<section {{.Attrs}}>{{end}}` +
		`{{define "flexLayoutDiv"}}<div class="pb-split" style="{{.Style}}">{{end}}` +
		`{{define "mediaSideDiv"}}<div class="pb-split-media" style="{{.Style}}">{{end}}` +
		`{{define "contentSideDiv"}}<div class="pb-split-content" style="{{.Style}}">{{end}}` +
		`{{define "image"}}<img src="{{.Src}}" alt="{{.Alt}}" loading="lazy" style="display: block; width: 100%; height: 100%; object-fit: cover">{{end}}` +
		`{{define "video"}}<video src="{{.Src}}"{{if .Poster}} poster="{{.Poster}}"{{end}} controls playsinline preload="metadata" style="display: block; width: 100%; height: 100%; object-fit: cover"></video>{{end}}` +
		`{{define "placeholder"}}<div class="pb-media-placeholder" aria-hidden="true" style="width: 100%; min-height: 240px; background-color: #e5e7eb"></div>{{end}}`,
))

type splitStyleData struct {
	Style template.CSS
}

type splitMediaData struct {
	Src    string
	Poster string
	Alt    string
}

// SplitSectionRenderer renders split-image and split-video sections. The media is
// not a child node: it is synthesized from the section's content and laid out as a
// pane beside the real children.
type SplitSectionRenderer struct {
	nodeRenderer NodeRenderer
}

// NewSplitSectionRenderer creates a new split section renderer
func NewSplitSectionRenderer(nodeRenderer NodeRenderer) *SplitSectionRenderer {
	return &SplitSectionRenderer{nodeRenderer: nodeRenderer}
}

func (r *SplitSectionRenderer) Render(n *page.Node) string {
	c := page.ParseAs[page.SplitMediaContent](n.Content)
	stacked := r.nodeRenderer.Context() != nil && r.nodeRenderer.Context().Breakpoint == page.Mobile

	var html bytes.Buffer
	r.executeTemplate(&html, "open", shell{Attrs: r.nodeRenderer.Attrs(n, "")})

	r.executeTemplate(&html, "flexLayoutDiv", splitStyleData{
		Style: template.CSS("display: flex; flex-wrap: nowrap; align-items: stretch; flex-direction: " + flexDirection(c.Position, stacked)),
	})

	r.executeTemplate(&html, "mediaSideDiv", splitStyleData{
		Style: template.CSS("position: relative; overflow: hidden; " + flexBasis(c.Size, "media", stacked)),
	})
	r.renderMedia(&html, n.Kind, c)
	html.WriteString(`</div>`)

	r.executeTemplate(&html, "contentSideDiv", splitStyleData{
		Style: template.CSS("min-width: 0; " + flexBasis(c.Size, "content", stacked)),
	})
	html.WriteString(r.nodeRenderer.RenderSlot(n.ID, n.Children))
	html.WriteString(`</div>`)

	html.WriteString(`</div></section>`)
	return html.String()
}

func (r *SplitSectionRenderer) renderMedia(buf *bytes.Buffer, kind page.Kind, c page.SplitMediaContent) {
	src := SafeURL(c.MediaURL)
	if c.MediaURL == "" || src == "#" {
		r.executeTemplate(buf, "placeholder", nil)
		return
	}

	alt := c.Alt
	if alt == "" {
		alt = "Section image"
	}
	data := splitMediaData{Src: src, Alt: alt}
	if kind == page.KindSplitVideo {
		if c.Poster != "" && SafeURL(c.Poster) != "#" {
			data.Poster = c.Poster
		}
		r.executeTemplate(buf, "video", data)
		return
	}
	r.executeTemplate(buf, "image", data)
}

func (r *SplitSectionRenderer) executeTemplate(buf *bytes.Buffer, name string, data any) {
	if err := splitTemplates.ExecuteTemplate(buf, name, data); err != nil {
		log.Printf("ERROR: Failed to execute split section template '%s': %v", name, err)
		buf.WriteString("<!-- template error -->")
	}
}

// flexDirection puts the media first for "left" and last for "right". Mobile
// output stacks the panes with the media on top.
func flexDirection(position string, stacked bool) string {
	switch {
	case stacked:
		return "column"
	case position == "right":
		return "row-reverse"
	default:
		return "row"
	}
}

func flexBasis(size, side string, stacked bool) string {
	if stacked {
		return "flex: 0 0 auto; width: 100%"
	}
	switch size {
	case "narrow":
		if side == "media" {
			return "flex: 0 0 33.333%"
		}
		return "flex: 0 0 66.667%"
	case "wide":
		if side == "media" {
			return "flex: 0 0 66.667%"
		}
		return "flex: 0 0 33.333%"
	default: // "equal"
		return "flex: 0 0 50%"
	}
}
