package templates

import (
	"regexp"
	"strings"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/styles"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/tree"
)

// Media query bounds for the narrower breakpoints in generated stylesheets.
const (
	TabletMaxWidth = "1024px"
	MobileMaxWidth = "640px"
)

var unsafeToken = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// CSSProcessorImpl turns resolved node styles into class and style attribute values
type CSSProcessorImpl struct {
	ctx *rendering.RenderContext
}

// NewCSSProcessorImpl creates a new CSS processor
func NewCSSProcessorImpl(ctx *rendering.RenderContext) *CSSProcessorImpl {
	return &CSSProcessorImpl{ctx: ctx}
}

// GetNodeClasses returns the scoped per-node class followed by the author's class
// names. Tokens are reduced to safe characters.
func (cp *CSSProcessorImpl) GetNodeClasses(n *page.Node) string {
	classes := []string{styles.ClassName(n.ID)}
	for _, c := range strings.Fields(n.ClassName) {
		if safe := SanitizeToken(c); safe != "" {
			classes = append(classes, safe)
		}
	}
	return strings.Join(classes, " ")
}

// GetNodeStringStyles returns layout defaults followed by the node's default-state
// style resolved at the context breakpoint.
func (cp *CSSProcessorImpl) GetNodeStringStyles(n *page.Node, layout string) string {
	resolved := styles.InlineCSS(styles.Resolve(n, cp.ctx.Breakpoint))
	switch {
	case layout == "":
		return resolved
	case resolved == "":
		return layout
	default:
		return layout + "; " + resolved
	}
}

// GetPageStyles renders page-wide settings as the page wrapper's inline style. Color
// and font tokens become custom properties.
func (cp *CSSProcessorImpl) GetPageStyles(ps page.PageStyles) string {
	m := page.StyleMap{
		"fontFamily":      ps.FontFamily,
		"backgroundColor": ps.BackgroundColor,
		"color":           ps.TextColor,
	}
	for name, v := range ps.Colors {
		if token := SanitizeToken(name); token != "" {
			m["--color-"+token] = v
		}
	}
	for name, v := range ps.Fonts {
		if token := SanitizeToken(name); token != "" {
			m["--font-"+token] = v
		}
	}
	return styles.InlineCSS(m)
}

// HoverStylesheet generates the hover rules for every node in the tree, including
// nodes inside columns. Desktop rules apply everywhere; tablet and mobile rules are
// emitted inside media queries only when that breakpoint overrides hover styles.
// Declarations carry !important so they win over the inlined default styles.
func HoverStylesheet(nodes []*page.Node) string {
	var desktop, tablet, mobile []string
	tree.Each(nodes, func(n *page.Node, _ tree.Location) {
		if rule := hoverRule(n, page.Desktop); rule != "" {
			desktop = append(desktop, rule)
		}
		if len(n.Styles.Bucket(page.Tablet, page.StateHover)) > 0 {
			if rule := hoverRule(n, page.Tablet); rule != "" {
				tablet = append(tablet, rule)
			}
		}
		if len(n.Styles.Bucket(page.Mobile, page.StateHover)) > 0 {
			if rule := hoverRule(n, page.Mobile); rule != "" {
				mobile = append(mobile, rule)
			}
		}
	})

	var b strings.Builder
	for _, r := range desktop {
		b.WriteString(r)
		b.WriteString("\n")
	}
	writeMedia(&b, TabletMaxWidth, tablet)
	writeMedia(&b, MobileMaxWidth, mobile)
	return b.String()
}

func hoverRule(n *page.Node, bp page.Breakpoint) string {
	decls := styles.Declarations(styles.ResolveState(n, bp, page.StateHover))
	if len(decls) == 0 {
		return ""
	}
	return "." + styles.ClassName(n.ID) + ":hover{" + strings.Join(decls, " !important;") + " !important}"
}

func writeMedia(b *strings.Builder, maxWidth string, rules []string) {
	if len(rules) == 0 {
		return
	}
	b.WriteString("@media (max-width: " + maxWidth + "){\n")
	for _, r := range rules {
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

// SanitizeToken reduces a class name or id to letters, digits, dash and underscore.
func SanitizeToken(s string) string {
	return unsafeToken.ReplaceAllString(strings.TrimSpace(s), "")
}

// SanitizeStylesheet removes markup from author CSS so it cannot close the style
// element it is embedded in.
func SanitizeStylesheet(css string) string {
	css = strings.ReplaceAll(css, "<", "")
	return strings.TrimSpace(css)
}
