package templates

import (
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var nodeATmpl = template.Must(template.New("nodeA").Parse(
	`{{define "link"}}<a {{.Attrs}} href="{{.Href}}"{{if .Target}} target="{{.Target}}" rel="noopener"{{end}}{{if .Interactive}} onclick="return false;"{{end}}>{{.Label}}</a>{{end}}`,
))

// NodeARenderer handles plain link rendering
type NodeARenderer struct {
	nodeRenderer NodeRenderer
}

// NewNodeARenderer creates a new node link renderer
func NewNodeARenderer(nodeRenderer NodeRenderer) *NodeARenderer {
	return &NodeARenderer{nodeRenderer: nodeRenderer}
}

func (r *NodeARenderer) Render(n *page.Node) string {
	c := page.ParseAs[page.ButtonContent](n.Content)
	data := nodeButtonData{
		Attrs:       r.nodeRenderer.Attrs(n, ""),
		Href:        SafeURL(c.Href),
		Label:       c.Label,
		Interactive: r.nodeRenderer.Context().Interactive(),
	}
	if c.Target == "_blank" {
		data.Target = "_blank"
	}
	if data.Label == "" {
		data.Label = data.Href
	}
	return execute(nodeATmpl, "link", data, n.ID)
}
