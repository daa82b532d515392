// Package templates provides per-kind element rendering for the page renderer
package templates

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"strings"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
)

// NodeRenderer is the dispatcher seen from an element renderer: it recurses into
// child lists and builds the outer-tag attributes for the current mode.
type NodeRenderer interface {
	RenderNode(n *page.Node) string
	// RenderSlot renders an ordered child list addressed by slotID, adding drop
	// indicators between children in interactive mode.
	RenderSlot(slotID string, nodes []*page.Node) string
	// DropIndicator returns the drop target at index of slotID, or "" outside
	// interactive mode.
	DropIndicator(slotID string, index int) string
	// Attrs returns the class, id, style and mode decorations of n's outer tag.
	// extraStyle carries layout defaults and is emitted before the resolved style so
	// the node's own declarations win.
	Attrs(n *page.Node, extraStyle string) template.HTMLAttr
	Context() *rendering.RenderContext
}

// shell is the common data shape for element templates.
type shell struct {
	Attrs template.HTMLAttr
	Body  template.HTML
}

func execute(tmpl *template.Template, name string, data any, nodeID string) string {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("ERROR: Failed to execute %s template for nodeID %s: %v", name, nodeID, err)
		return "<!-- template error -->"
	}
	return buf.String()
}

// SafeURL keeps http(s), mailto, tel, fragment and relative references. Anything
// else becomes "#".
func SafeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "#"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return raw
	default:
		return "#"
	}
}

// httpsURL accepts only absolute https references, used for framed documents.
func httpsURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return "", false
	}
	return u.String(), true
}

// cssURL formats an http(s) or relative reference as a CSS url() value. References
// that could terminate the value early are refused.
func cssURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || SafeURL(raw) == "#" || strings.ContainsAny(raw, "\"'()\\;{}<>") {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(raw), "mailto:") || strings.HasPrefix(strings.ToLower(raw), "tel:") {
		return "", false
	}
	return `url("` + raw + `")`, true
}
