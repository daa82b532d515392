package templates

import (
	"html/template"
	"regexp"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var basicTagTmpl = template.Must(template.New("basicTag").Parse(
	`{{define "ul"}}<ul {{.Attrs}}>{{range .Items}}<li data-item-id="{{.ID}}">{{.Text}}</li>{{end}}</ul>{{end}}` +
		`{{define "ol"}}<ol {{.Attrs}}>{{range .Items}}<li data-item-id="{{.ID}}">{{.Text}}</li>{{end}}</ol>{{end}}` +
		`{{define "code"}}<pre {{.Attrs}}><code{{if .Language}} class="language-{{.Language}}"{{end}}>{{.Code}}</code></pre>{{end}}` +
		`{{define "icon"}}<span {{.Attrs}} role="img" aria-label="{{.Name}}" data-icon="{{.Name}}"></span>{{end}}`,
))

type listData struct {
	Attrs template.HTMLAttr
	Items []page.ListItem
}

type codeData struct {
	Attrs    template.HTMLAttr
	Language string
	Code     string
}

type iconData struct {
	Attrs template.HTMLAttr
	Name  string
}

// languageName keeps highlighter class names to a plain token.
var languageName = regexp.MustCompile(`^[a-zA-Z0-9_+-]{1,32}$`)

// NodeBasicTagRenderer renders the simple structured leaves: list, code and icon.
// Payload text is always escaped.
type NodeBasicTagRenderer struct {
	nodeRenderer NodeRenderer
}

// NewNodeBasicTagRenderer creates a new node basic tag renderer
func NewNodeBasicTagRenderer(nodeRenderer NodeRenderer) *NodeBasicTagRenderer {
	return &NodeBasicTagRenderer{nodeRenderer: nodeRenderer}
}

func (r *NodeBasicTagRenderer) Render(n *page.Node) string {
	switch n.Kind {
	case page.KindList:
		c := page.ParseAs[page.ListContent](n.Content)
		name := "ul"
		if c.Ordered {
			name = "ol"
		}
		return execute(basicTagTmpl, name, listData{Attrs: r.nodeRenderer.Attrs(n, ""), Items: c.Items}, n.ID)

	case page.KindCode:
		c := page.ParseAs[page.CodeContent](n.Content)
		data := codeData{
			Attrs: r.nodeRenderer.Attrs(n, "overflow-x: auto; white-space: pre"),
			Code:  c.Code,
		}
		if languageName.MatchString(c.Language) {
			data.Language = c.Language
		}
		return execute(basicTagTmpl, "code", data, n.ID)

	default:
		c := page.ParseAs[page.IconContent](n.Content)
		layout := "display: inline-block; width: 1em; height: 1em"
		if size := cssValue(c.Size); size != "" {
			layout += "; font-size: " + size
		}
		return execute(basicTagTmpl, "icon", iconData{Attrs: r.nodeRenderer.Attrs(n, layout), Name: c.Name}, n.ID)
	}
}
