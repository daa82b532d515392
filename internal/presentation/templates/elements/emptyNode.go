package templates

import (
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var emptyNodeTmpl = template.Must(template.New("emptyNode").Parse(
	`{{define "divider"}}<hr {{.Attrs}}>{{end}}` +
		`{{define "empty"}}<div {{.Attrs}} aria-hidden="true"></div>{{end}}`,
))

// EmptyNodeRenderer renders kinds whose whole output is their styled box: divider,
// spacer and connector.
type EmptyNodeRenderer struct {
	nodeRenderer NodeRenderer
}

// NewEmptyNodeRenderer creates a new empty node renderer
func NewEmptyNodeRenderer(nodeRenderer NodeRenderer) *EmptyNodeRenderer {
	return &EmptyNodeRenderer{nodeRenderer: nodeRenderer}
}

func (r *EmptyNodeRenderer) Render(n *page.Node) string {
	name := "empty"
	if n.Kind == page.KindDivider {
		name = "divider"
	}
	return execute(emptyNodeTmpl, name, shell{Attrs: r.nodeRenderer.Attrs(n, "")}, n.ID)
}
