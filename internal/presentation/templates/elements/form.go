package templates

import (
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var formTmpl = template.Must(template.New("form").Parse(
	`{{define "form"}}<form {{.Attrs}} action="{{.Action}}" method="post"{{if .Interactive}} onsubmit="return false;" novalidate{{end}}>` +
		`{{if .Title}}<h3>{{.Title}}</h3>{{end}}` +
		`{{range .Fields}}{{template "field" .}}{{end}}` +
		`<button type="submit">{{.SubmitLabel}}</button></form>{{end}}` +

		`{{define "field"}}<div class="pb-field" data-item-id="{{.ID}}">` +
		`{{if eq .Type "checkbox"}}<label><input type="checkbox" name="{{.Name}}"{{if .Required}} required{{end}}> {{.Label}}</label>` +
		`{{else}}{{if .Label}}<label for="{{.ID}}">{{.Label}}</label>{{end}}` +
		`{{if eq .Type "textarea"}}<textarea id="{{.ID}}" name="{{.Name}}" placeholder="{{.Placeholder}}"{{if .Required}} required{{end}}></textarea>` +
		`{{else if eq .Type "select"}}<select id="{{.ID}}" name="{{.Name}}"{{if .Required}} required{{end}}>{{range .Options}}<option value="{{.}}">{{.}}</option>{{end}}</select>` +
		`{{else}}<input id="{{.ID}}" type="{{.Type}}" name="{{.Name}}" placeholder="{{.Placeholder}}"{{if .Required}} required{{end}}>{{end}}` +
		`{{end}}</div>{{end}}`,
))

type formData struct {
	Attrs       template.HTMLAttr
	Action      string
	Title       string
	SubmitLabel string
	Fields      []page.FormField
	Interactive bool
}

var inputTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"tel":      true,
	"number":   true,
	"textarea": true,
	"select":   true,
	"checkbox": true,
}

// FormRenderer renders form, contact-form and newsletter payloads. Submission is
// disabled on the editor canvas.
type FormRenderer struct {
	nodeRenderer NodeRenderer
}

// NewFormRenderer creates a new form renderer
func NewFormRenderer(nodeRenderer NodeRenderer) *FormRenderer {
	return &FormRenderer{nodeRenderer: nodeRenderer}
}

func (r *FormRenderer) Render(n *page.Node) string {
	c := page.ParseAs[page.FormContent](n.Content)

	fields := make([]page.FormField, 0, len(c.Fields))
	for _, f := range c.Fields {
		if !inputTypes[f.Type] {
			f.Type = "text"
		}
		fields = append(fields, f)
	}

	data := formData{
		Attrs:       r.nodeRenderer.Attrs(n, ""),
		Action:      SafeURL(c.Action),
		Title:       c.Title,
		SubmitLabel: c.SubmitLabel,
		Fields:      fields,
		Interactive: r.nodeRenderer.Context().Interactive(),
	}
	if data.SubmitLabel == "" {
		data.SubmitLabel = "Submit"
	}
	return execute(formTmpl, "form", data, n.ID)
}
