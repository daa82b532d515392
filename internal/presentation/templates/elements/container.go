package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var containerTmpl = template.Must(template.New("container").Parse(
	`{{define "section"}}<section {{.Attrs}}>{{.Body}}</section>{{end}}` +
		`{{define "div"}}<div {{.Attrs}}>{{.Body}}</div>{{end}}` +
		`{{define "footer"}}<footer {{.Attrs}}>{{.Body}}</footer>{{end}}` +
		`{{define "overlay"}}<div class="pb-overlay" aria-hidden="true" style="{{.}}"></div>{{end}}`,
))

// containerLayout holds the layout defaults each container kind starts from.
var containerLayout = map[page.Kind]string{
	page.KindGrid:        "display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr))",
	page.KindRow:         "display: flex; flex-direction: row; flex-wrap: wrap",
	page.KindCard:        "display: flex; flex-direction: column; overflow: hidden",
	page.KindCardContent: "display: flex; flex-direction: column",
	page.KindSteps:       "display: flex; flex-direction: column; align-items: stretch",
	page.KindStepBlock:   "display: flex; flex-direction: column",
	page.KindCTA:         "display: flex; flex-direction: column; align-items: center",
}

// ContainerRenderer renders kinds whose body is their ordinary child list.
type ContainerRenderer struct {
	nodeRenderer NodeRenderer
}

// NewContainerRenderer creates a new container renderer
func NewContainerRenderer(nodeRenderer NodeRenderer) *ContainerRenderer {
	return &ContainerRenderer{nodeRenderer: nodeRenderer}
}

func (r *ContainerRenderer) Render(n *page.Node) string {
	name := "div"
	switch n.Kind {
	case page.KindSection:
		name = "section"
	case page.KindHero:
		return r.renderHero(n)
	}
	return execute(containerTmpl, name, shell{
		Attrs: r.nodeRenderer.Attrs(n, containerLayout[n.Kind]),
		Body:  template.HTML(r.nodeRenderer.RenderSlot(n.ID, n.Children)),
	}, n.ID)
}

// renderHero paints the background from content and layers the overlay under the
// children.
func (r *ContainerRenderer) renderHero(n *page.Node) string {
	c := page.ParseAs[page.HeroContent](n.Content)

	layout := []string{"position: relative", "overflow: hidden"}
	if bg, ok := cssURL(c.BackgroundImage); ok {
		layout = append(layout, "background-image: "+bg, "background-size: cover", "background-position: center")
	}
	if v := cssValue(c.BackgroundColor); v != "" {
		layout = append(layout, "background-color: "+v)
	}
	if v := cssValue(c.MinHeight); v != "" {
		layout = append(layout, "min-height: "+v)
	}

	var body bytes.Buffer
	if v := cssValue(c.OverlayColor); v != "" {
		opacity := c.OverlayOpacity
		if opacity <= 0 || opacity > 1 {
			opacity = 0.5
		}
		overlay := fmt.Sprintf("position: absolute; inset: 0; background-color: %s; opacity: %g; z-index: 0", v, opacity)
		body.WriteString(execute(containerTmpl, "overlay", template.CSS(overlay), n.ID))
	}
	body.WriteString(`<div class="pb-hero-body" style="position: relative; z-index: 1">`)
	body.WriteString(r.nodeRenderer.RenderSlot(n.ID, n.Children))
	body.WriteString(`</div>`)

	return execute(containerTmpl, "section", shell{
		Attrs: r.nodeRenderer.Attrs(n, strings.Join(layout, "; ")),
		Body:  template.HTML(body.String()),
	}, n.ID)
}

// FooterRenderer renders the footer: its children followed by the link row.
type FooterRenderer struct {
	nodeRenderer NodeRenderer
}

// NewFooterRenderer creates a new footer renderer
func NewFooterRenderer(nodeRenderer NodeRenderer) *FooterRenderer {
	return &FooterRenderer{nodeRenderer: nodeRenderer}
}

func (r *FooterRenderer) Render(n *page.Node) string {
	c := page.ParseAs[page.FooterContent](n.Content)

	var body bytes.Buffer
	body.WriteString(r.nodeRenderer.RenderSlot(n.ID, n.Children))
	body.WriteString(execute(navigationTmpl, "footerBar", footerData{
		Text:  c.Text,
		Links: navLinks(c.Links),
	}, n.ID))

	return execute(containerTmpl, "footer", shell{
		Attrs: r.nodeRenderer.Attrs(n, ""),
		Body:  template.HTML(body.String()),
	}, n.ID)
}

// cssValue passes plain tokens like colors and lengths and refuses anything that
// could open a new declaration.
func cssValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, ";{}<>\"'\\") || strings.Contains(strings.ToLower(v), "url(") {
		return ""
	}
	return v
}
