package templates

import (
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var navigationTmpl = template.Must(template.New("navigation").Parse(
	`{{define "navbar"}}<nav {{.Attrs}}>` +
		`<div class="pb-nav-brand" style="display: flex; align-items: center; gap: 8px">` +
		`{{if .Logo}}<img src="{{.Logo}}" alt="{{.Brand}}" style="height: 32px; width: auto">{{end}}` +
		`{{if .Brand}}<span>{{.Brand}}</span>{{end}}</div>` +
		`<ul class="pb-nav-links" style="display: flex; gap: 16px; list-style: none; margin: 0; padding: 0">` +
		`{{range .Links}}<li data-item-id="{{.ID}}"><a href="{{.Href}}">{{.Label}}</a></li>{{end}}` +
		`</ul></nav>{{end}}` +
		`{{define "footerBar"}}<div class="pb-footer-bar" style="display: flex; flex-wrap: wrap; justify-content: space-between; gap: 16px">` +
		`{{if .Text}}<p>{{.Text}}</p>{{end}}` +
		`{{if .Links}}<ul class="pb-footer-links" style="display: flex; gap: 16px; list-style: none; margin: 0; padding: 0">` +
		`{{range .Links}}<li data-item-id="{{.ID}}"><a href="{{.Href}}">{{.Label}}</a></li>{{end}}</ul>{{end}}` +
		`</div>{{end}}`,
))

type navbarData struct {
	Attrs template.HTMLAttr
	Brand string
	Logo  string
	Links []page.NavLink
}

type footerData struct {
	Text  string
	Links []page.NavLink
}

// NavbarRenderer renders the top navigation bar from its link payload.
type NavbarRenderer struct {
	nodeRenderer NodeRenderer
}

// NewNavbarRenderer creates a new navbar renderer
func NewNavbarRenderer(nodeRenderer NodeRenderer) *NavbarRenderer {
	return &NavbarRenderer{nodeRenderer: nodeRenderer}
}

func (r *NavbarRenderer) Render(n *page.Node) string {
	c := page.ParseAs[page.NavbarContent](n.Content)
	data := navbarData{
		Attrs: r.nodeRenderer.Attrs(n, "display: flex; align-items: center; justify-content: space-between"),
		Brand: c.Brand,
		Links: navLinks(c.Links),
	}
	if c.Logo != "" && SafeURL(c.Logo) != "#" {
		data.Logo = c.Logo
	}
	return execute(navigationTmpl, "navbar", data, n.ID)
}

// navLinks returns a copy of links with unsafe targets replaced.
func navLinks(links []page.NavLink) []page.NavLink {
	out := make([]page.NavLink, 0, len(links))
	for _, l := range links {
		l.Href = SafeURL(l.Href)
		out = append(out, l)
	}
	return out
}
