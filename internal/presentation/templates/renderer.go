// Package templates renders page documents to HTML for the editor canvas and for
// preview and publish output
package templates

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"log"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/styles"

	templates "github.com/AtRiskMedia/pagebuilder-go/internal/presentation/templates/elements"
)

var pageTemplates = template.Must(template.New("pageRenderer").Parse(
	`{{define "document"}}<div class="pb-page" data-mode="{{.Mode}}" data-breakpoint="{{.Breakpoint}}" style="{{.Style}}">{{.Body}}</div>{{end}}` +
		`{{define "page"}}<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
		`<meta name="viewport" content="width=device-width, initial-scale=1">` +
		`<title>{{.Title}}</title><style>{{.CSS}}</style></head><body>{{.Body}}</body></html>{{end}}`,
))

type documentData struct {
	Mode       rendering.Mode
	Breakpoint page.Breakpoint
	Style      template.CSS
	Body       template.HTML
}

type pageData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

// NodeRendererImpl is the per-kind dispatch table shared by both render modes. The
// mode only changes what Attrs and RenderSlot add around each element.
type NodeRendererImpl struct {
	ctx          *rendering.RenderContext
	cssProcessor *CSSProcessorImpl
}

// NewNodeRenderer creates a new node renderer with context
func NewNodeRenderer(ctx *rendering.RenderContext) *NodeRendererImpl {
	if ctx == nil {
		ctx = &rendering.RenderContext{}
	}
	ctx.Mode = rendering.ParseMode(string(ctx.Mode))
	ctx.Breakpoint = page.ParseBreakpoint(string(ctx.Breakpoint))

	renderer := &NodeRendererImpl{ctx: ctx}
	renderer.cssProcessor = NewCSSProcessorImpl(ctx)
	return renderer
}

// Context returns the render context shared with element renderers.
func (nr *NodeRendererImpl) Context() *rendering.RenderContext {
	return nr.ctx
}

// RenderNode renders n and its subtree. A node hidden at the context breakpoint
// renders nothing, and neither do its descendants.
func (nr *NodeRendererImpl) RenderNode(n *page.Node) string {
	if n == nil {
		return ""
	}
	if styles.IsHidden(n, nr.ctx.Breakpoint) {
		return ""
	}

	switch n.Kind {
	case page.KindHeading, page.KindText, page.KindQuote:
		return templates.NewRichTextRenderer(nr).Render(n)
	case page.KindButton:
		return templates.NewNodeButtonRenderer(nr).Render(n)
	case page.KindLink:
		return templates.NewNodeARenderer(nr).Render(n)
	case page.KindImage, page.KindVideo, page.KindEmbed, page.KindMap:
		return templates.NewMediaRenderer(nr).Render(n)
	case page.KindDivider, page.KindSpacer, page.KindConnector:
		return templates.NewEmptyNodeRenderer(nr).Render(n)
	case page.KindList, page.KindCode, page.KindIcon:
		return templates.NewNodeBasicTagRenderer(nr).Render(n)
	case page.KindColumns:
		return templates.NewColumnsRenderer(nr).Render(n)
	case page.KindSplitImage, page.KindSplitVideo:
		return templates.NewSplitSectionRenderer(nr).Render(n)
	case page.KindAutoScroll, page.KindSingleAuto, page.KindImageCarousel, page.KindHeroSlider:
		return templates.NewSliderRenderer(nr).Render(n)
	case page.KindNavbar:
		return templates.NewNavbarRenderer(nr).Render(n)
	case page.KindFooter:
		return templates.NewFooterRenderer(nr).Render(n)
	case page.KindFeatures, page.KindTestimonials, page.KindPricing, page.KindFAQ,
		page.KindStats, page.KindTeam, page.KindLogoCloud, page.KindGallery:
		return templates.NewCompositeRenderer(nr).Render(n)
	case page.KindForm, page.KindContactForm, page.KindNewsletter:
		return templates.NewFormRenderer(nr).Render(n)
	case page.KindSection, page.KindContainer, page.KindGrid, page.KindRow, page.KindCard,
		page.KindCardContent, page.KindHero, page.KindCTA, page.KindStepBlock, page.KindSteps:
		return templates.NewContainerRenderer(nr).Render(n)
	default:
		log.Printf("WARN: no renderer for kind %q (node %s)", n.Kind, n.ID)
		return nr.renderEmptyNode(n)
	}
}

// RenderSlot renders an ordered child list. On the editor canvas a drop indicator
// precedes every child and follows the last one, addressed by slot id and index.
func (nr *NodeRendererImpl) RenderSlot(slotID string, nodes []*page.Node) string {
	var buf strings.Builder
	interactive := nr.ctx.Interactive()
	for i, child := range nodes {
		if interactive {
			buf.WriteString(dropIndicator(slotID, i))
		}
		buf.WriteString(nr.RenderNode(child))
	}
	if interactive {
		buf.WriteString(dropIndicator(slotID, len(nodes)))
	}
	return buf.String()
}

// DropIndicator returns the drop target at index of slotID on the editor canvas.
func (nr *NodeRendererImpl) DropIndicator(slotID string, index int) string {
	if !nr.ctx.Interactive() {
		return ""
	}
	return dropIndicator(slotID, index)
}

// RenderNodes renders a top-level node list as the canvas slot.
func (nr *NodeRendererImpl) RenderNodes(nodes []*page.Node) string {
	return nr.RenderSlot(page.CanvasKey, nodes)
}

// RenderDocument renders the canvas inside a page wrapper carrying page styles.
func (nr *NodeRendererImpl) RenderDocument(doc page.Document) string {
	var buf bytes.Buffer
	nr.executeTemplate(&buf, "document", documentData{
		Mode:       nr.ctx.Mode,
		Breakpoint: nr.ctx.Breakpoint,
		Style:      template.CSS(nr.cssProcessor.GetPageStyles(doc.PageStyles)),
		Body:       template.HTML(nr.RenderNodes(doc.Content)),
	})
	return buf.String()
}

// RenderPage renders a standalone HTML page: global CSS and the hover stylesheet in
// the head, the document in the body.
func (nr *NodeRendererImpl) RenderPage(doc page.Document, title string) string {
	var css strings.Builder
	if global := SanitizeStylesheet(doc.PageStyles.GlobalCSS); global != "" {
		css.WriteString(global)
		css.WriteString("\n")
	}
	css.WriteString(HoverStylesheet(doc.Content))

	var buf bytes.Buffer
	nr.executeTemplate(&buf, "page", pageData{
		Title: title,
		CSS:   template.CSS(css.String()),
		Body:  template.HTML(nr.RenderDocument(doc)),
	})
	return buf.String()
}

// Attrs builds the outer-tag attributes of n. The class and style parts are the
// same in both modes; the editor canvas adds selection and drag hooks.
func (nr *NodeRendererImpl) Attrs(n *page.Node, extraStyle string) template.HTMLAttr {
	var b strings.Builder
	writeAttr(&b, "class", nr.cssProcessor.GetNodeClasses(n))
	if id := SanitizeToken(n.HTMLID); id != "" {
		writeAttr(&b, "id", id)
	}
	if style := nr.cssProcessor.GetNodeStringStyles(n, extraStyle); style != "" {
		writeAttr(&b, "style", style)
	}

	if nr.ctx.Interactive() {
		writeAttr(&b, "data-node-id", n.ID)
		writeAttr(&b, "data-kind", string(n.Kind))
		writeAttr(&b, "draggable", "true")
		writeAttr(&b, "tabindex", "0")
		if n.ID == nr.ctx.SelectedID {
			writeAttr(&b, "data-selected", "true")
		}
		if n.Kind.IsRichText() {
			writeAttr(&b, "contenteditable", "true")
		}
	}
	return template.HTMLAttr(b.String())
}

func (nr *NodeRendererImpl) renderEmptyNode(n *page.Node) string {
	return `<div ` + string(nr.Attrs(n, "")) + `></div>`
}

func (nr *NodeRendererImpl) executeTemplate(buf *bytes.Buffer, name string, data any) {
	if err := pageTemplates.ExecuteTemplate(buf, name, data); err != nil {
		log.Printf("ERROR: Failed to execute page template '%s': %v", name, err)
		buf.WriteString("<!-- template error -->")
	}
}

func dropIndicator(slotID string, index int) string {
	return fmt.Sprintf(`<div class="pb-drop" data-drop-parent="%s" data-drop-index="%s" aria-hidden="true"></div>`,
		html.EscapeString(slotID), strconv.Itoa(index))
}

func writeAttr(b *strings.Builder, name, value string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}
