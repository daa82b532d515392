package templates

import (
	"html/template"
	"net/url"
	"strconv"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var mediaTmpl = template.Must(template.New("media").Parse(
	`{{define "image"}}{{if .Href}}<a href="{{.Href}}">{{end}}<img {{.Attrs}} src="{{.Src}}" alt="{{.Alt}}" loading="lazy">{{if .Href}}</a>{{end}}{{end}}` +
		`{{define "video"}}<video {{.Attrs}} src="{{.Src}}"{{if .Poster}} poster="{{.Poster}}"{{end}}{{if .Controls}} controls{{end}}{{if .Autoplay}} autoplay{{end}}{{if .Loop}} loop{{end}}{{if .Muted}} muted{{end}} playsinline></video>{{end}}` +
		`{{define "frame"}}<div {{.Attrs}}><iframe src="{{.Src}}" title="{{.Title}}" loading="lazy" referrerpolicy="no-referrer" sandbox="allow-scripts allow-same-origin allow-popups" style="border: 0; width: 100%; height: {{.Height}}"></iframe></div>{{end}}` +
		`{{define "missing"}}<div {{.Attrs}} data-missing="true">{{.Label}}</div>{{end}}`,
))

type mediaData struct {
	Attrs    template.HTMLAttr
	Src      string
	Alt      string
	Href     string
	Poster   string
	Title    string
	Height   template.CSS
	Label    string
	Controls bool
	Autoplay bool
	Loop     bool
	Muted    bool
}

const mapsEmbedBase = "https://www.google.com/maps"

// MediaRenderer renders image, video, embed and map leaves. Framed documents are
// limited to https.
type MediaRenderer struct {
	nodeRenderer NodeRenderer
}

// NewMediaRenderer creates a new media renderer
func NewMediaRenderer(nodeRenderer NodeRenderer) *MediaRenderer {
	return &MediaRenderer{nodeRenderer: nodeRenderer}
}

func (r *MediaRenderer) Render(n *page.Node) string {
	switch n.Kind {
	case page.KindVideo:
		return r.renderVideo(n)
	case page.KindEmbed:
		return r.renderEmbed(n)
	case page.KindMap:
		return r.renderMap(n)
	default:
		return r.renderImage(n)
	}
}

func (r *MediaRenderer) renderImage(n *page.Node) string {
	c := page.ParseAs[page.ImageContent](n.Content)
	if c.Src == "" || SafeURL(c.Src) == "#" {
		return r.missing(n, "No image selected")
	}
	data := mediaData{
		Attrs: r.nodeRenderer.Attrs(n, "display: block; max-width: 100%; height: auto"),
		Src:   c.Src,
		Alt:   c.Alt,
	}
	if c.Href != "" && SafeURL(c.Href) != "#" && !r.nodeRenderer.Context().Interactive() {
		data.Href = c.Href
	}
	return execute(mediaTmpl, "image", data, n.ID)
}

func (r *MediaRenderer) renderVideo(n *page.Node) string {
	c := page.ParseAs[page.VideoContent](n.Content)
	if c.URL == "" || SafeURL(c.URL) == "#" {
		return r.missing(n, "No video selected")
	}
	data := mediaData{
		Attrs:    r.nodeRenderer.Attrs(n, "display: block; width: 100%"),
		Src:      c.URL,
		Controls: c.Controls,
		Loop:     c.Loop,
		Muted:    c.Muted,
	}
	if c.Poster != "" && SafeURL(c.Poster) != "#" {
		data.Poster = c.Poster
	}
	// Autoplaying on the editor canvas gets in the way of selection.
	if !r.nodeRenderer.Context().Interactive() {
		data.Autoplay = c.Autoplay
	}
	return execute(mediaTmpl, "video", data, n.ID)
}

func (r *MediaRenderer) renderEmbed(n *page.Node) string {
	c := page.ParseAs[page.EmbedContent](n.Content)
	src, ok := httpsURL(c.URL)
	if !ok {
		return r.missing(n, "Embeds require an https address")
	}
	title := c.Title
	if title == "" {
		title = "Embedded content"
	}
	return execute(mediaTmpl, "frame", mediaData{
		Attrs:  r.nodeRenderer.Attrs(n, ""),
		Src:    src,
		Title:  title,
		Height: template.CSS(frameHeight(c.Height, "400px")),
	}, n.ID)
}

func (r *MediaRenderer) renderMap(n *page.Node) string {
	c := page.ParseAs[page.MapContent](n.Content)
	if c.Address == "" {
		return r.missing(n, "No address set")
	}
	zoom := c.Zoom
	if zoom <= 0 || zoom > 21 {
		zoom = 14
	}
	q := url.Values{}
	q.Set("q", c.Address)
	q.Set("z", strconv.Itoa(zoom))
	q.Set("output", "embed")

	return execute(mediaTmpl, "frame", mediaData{
		Attrs:  r.nodeRenderer.Attrs(n, ""),
		Src:    mapsEmbedBase + "?" + q.Encode(),
		Title:  c.Address,
		Height: "360px",
	}, n.ID)
}

func (r *MediaRenderer) missing(n *page.Node, label string) string {
	return execute(mediaTmpl, "missing", mediaData{
		Attrs: r.nodeRenderer.Attrs(n, ""),
		Label: label,
	}, n.ID)
}

func frameHeight(v, fallback string) string {
	if h := cssValue(v); h != "" {
		return h
	}
	return fallback
}
