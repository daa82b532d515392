package templates

import (
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// nodeButtonTmpl renders buttons as anchors so published pages need no script.
// On the editor canvas navigation is suppressed.
var nodeButtonTmpl = template.Must(template.New("nodeButton").Parse(
	`{{define "button"}}<a {{.Attrs}} role="button" href="{{.Href}}"{{if .Target}} target="{{.Target}}" rel="noopener"{{end}}{{if .Interactive}} onclick="return false;"{{end}}>{{.Label}}</a>{{end}}`,
))

type nodeButtonData struct {
	Attrs       template.HTMLAttr
	Href        string
	Target      string
	Label       string
	Interactive bool
}

// NodeButtonRenderer handles button and link rendering
type NodeButtonRenderer struct {
	nodeRenderer NodeRenderer
}

// NewNodeButtonRenderer creates a new node button renderer
func NewNodeButtonRenderer(nodeRenderer NodeRenderer) *NodeButtonRenderer {
	return &NodeButtonRenderer{nodeRenderer: nodeRenderer}
}

func (r *NodeButtonRenderer) Render(n *page.Node) string {
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
		data.Label = "Button"
	}
	return execute(nodeButtonTmpl, "button", data, n.ID)
}
