package templates

import (
	"bytes"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements are removed together with everything inside them.
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Base:     true,
	atom.Form:     true,
	atom.Frame:    true,
	atom.Frameset: true,
	atom.Template: true,
	atom.Noscript: true,
}

var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
	"srcset":     true,
	"poster":     true,
}

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

// SanitizeHTML parses a rich-text fragment and renders it back without active
// content: script-like elements, event handler attributes, inline styles that
// carry expressions and non-http URLs are removed. Plain text comes back escaped.
func SanitizeHTML(fragment string) template.HTML {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), fragmentContext)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(fragment))
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if !clean(n) {
			continue
		}
		if err := html.Render(&buf, n); err != nil {
			return template.HTML(template.HTMLEscapeString(fragment))
		}
	}
	return template.HTML(buf.String())
}

// clean scrubs n in place and reports whether it should be kept.
func clean(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return false
	case html.ElementNode:
		if droppedElements[n.DataAtom] {
			return false
		}
		n.Attr = cleanAttrs(n.Attr)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !clean(c) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	out := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		switch {
		case strings.HasPrefix(key, "on"):
			continue
		case key == "style" && unsafeStyle(a.Val):
			continue
		case urlAttrs[key] && SafeURL(a.Val) == "#" && strings.TrimSpace(a.Val) != "#":
			continue
		}
		out = append(out, a)
	}
	return out
}

func unsafeStyle(v string) bool {
	v = strings.ToLower(v)
	return strings.Contains(v, "expression(") || strings.Contains(v, "javascript:") || strings.Contains(v, "url(")
}
