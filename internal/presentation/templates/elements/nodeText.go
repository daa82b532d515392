package templates

import (
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var richTextTmpl = template.Must(template.New("richText").Parse(
	`{{define "heading"}}<h2 {{.Attrs}}>{{.Body}}</h2>{{end}}` +
		`{{define "text"}}<div {{.Attrs}}>{{.Body}}</div>{{end}}` +
		`{{define "quote"}}<blockquote {{.Attrs}}>{{.Body}}</blockquote>{{end}}`,
))

// RichTextRenderer renders the inline-editable kinds: heading, text and quote.
// Content is an HTML fragment and is sanitized before output.
type RichTextRenderer struct {
	nodeRenderer NodeRenderer
}

// NewRichTextRenderer creates a new rich text renderer
func NewRichTextRenderer(nodeRenderer NodeRenderer) *RichTextRenderer {
	return &RichTextRenderer{nodeRenderer: nodeRenderer}
}

func (r *RichTextRenderer) Render(n *page.Node) string {
	name := "text"
	switch n.Kind {
	case page.KindHeading:
		name = "heading"
	case page.KindQuote:
		name = "quote"
	}
	return execute(richTextTmpl, name, shell{
		Attrs: r.nodeRenderer.Attrs(n, ""),
		Body:  SanitizeHTML(n.Content),
	}, n.ID)
}
