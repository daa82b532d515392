package templates

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var columnsTmpl = template.Must(template.New("columns").Parse(
	`{{define "columns"}}<div {{.Attrs}}>{{.Body}}</div>{{end}}` +
		`{{define "cell"}}<div class="pb-column" data-column-id="{{.ID}}" style="min-width: 0">{{.Body}}</div>{{end}}`,
))

type columnCellData struct {
	ID   string
	Body template.HTML
}

// ColumnsRenderer lays out each column of a columns node in its own grid cell.
// Columns collapse to a single track on mobile.
type ColumnsRenderer struct {
	nodeRenderer NodeRenderer
}

// NewColumnsRenderer creates a new columns renderer
func NewColumnsRenderer(nodeRenderer NodeRenderer) *ColumnsRenderer {
	return &ColumnsRenderer{nodeRenderer: nodeRenderer}
}

func (r *ColumnsRenderer) Render(n *page.Node) string {
	cc := page.ParseColumns(n.Content)

	tracks := len(cc.Columns)
	if tracks == 0 || (r.nodeRenderer.Context() != nil && r.nodeRenderer.Context().Breakpoint == page.Mobile) {
		tracks = 1
	}
	layout := fmt.Sprintf("display: grid; grid-template-columns: repeat(%d, minmax(0, 1fr))", tracks)
	if gap := cssValue(cc.Gap); gap != "" {
		layout += "; gap: " + gap
	}

	var body bytes.Buffer
	for _, col := range cc.Columns {
		body.WriteString(execute(columnsTmpl, "cell", columnCellData{
			ID:   col.ID,
			Body: template.HTML(r.nodeRenderer.RenderSlot(col.ID, col.Children)),
		}, n.ID))
	}

	return execute(columnsTmpl, "columns", shell{
		Attrs: r.nodeRenderer.Attrs(n, layout),
		Body:  template.HTML(body.String()),
	}, n.ID)
}
