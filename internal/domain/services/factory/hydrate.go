package factory

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html"
	"io/fs"
	"path"
	"sync"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Descriptor is one element of an AI-generated layout: a kind plus a kind-specific
// content object. Container kinds nest further descriptors inside content.
type Descriptor struct {
	Kind    page.Kind       `json:"kind"`
	Content json.RawMessage `json:"content,omitempty"`
}

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "mem://pagebuilder/schemas/"

var schemaFiles = map[page.Kind]string{
	page.KindHeading:       "richtext.json",
	page.KindText:          "richtext.json",
	page.KindQuote:         "richtext.json",
	page.KindButton:        "button.json",
	page.KindLink:          "button.json",
	page.KindImage:         "image.json",
	page.KindVideo:         "video.json",
	page.KindHero:          "hero.json",
	page.KindSplitImage:    "split.json",
	page.KindSplitVideo:    "split.json",
	page.KindNavbar:        "navbar.json",
	page.KindFooter:        "navbar.json",
	page.KindList:          "list.json",
	page.KindFeatures:      "features.json",
	page.KindTestimonials:  "testimonials.json",
	page.KindPricing:       "pricing.json",
	page.KindFAQ:           "faq.json",
	page.KindStats:         "stats.json",
	page.KindTeam:          "team.json",
	page.KindLogoCloud:     "logos.json",
	page.KindImageCarousel: "slides.json",
	page.KindHeroSlider:    "slides.json",
	page.KindGallery:       "gallery.json",
	page.KindSteps:         "steps.json",
	page.KindForm:          "form.json",
	page.KindContactForm:   "form.json",
	page.KindNewsletter:    "form.json",
	page.KindColumns:       "columns.json",
	page.KindSection:       "container.json",
	page.KindContainer:     "container.json",
	page.KindGrid:          "container.json",
	page.KindRow:           "container.json",
	page.KindCard:          "container.json",
	page.KindCardContent:   "container.json",
	page.KindCTA:           "container.json",
	page.KindStepBlock:     "container.json",
	page.KindAutoScroll:    "container.json",
	page.KindSingleAuto:    "container.json",
}

var (
	schemaOnce sync.Once
	schemaSet  map[string]*jsonschema.Schema
	schemaErr  error
)

func compiledSchemas() (map[string]*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		entries, err := fs.ReadDir(schemaFS, "schemas")
		if err != nil {
			schemaErr = err
			return
		}

		compiler := jsonschema.NewCompiler()
		for _, entry := range entries {
			data, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
			if err != nil {
				schemaErr = err
				return
			}
			if err := compiler.AddResource(schemaBase+entry.Name(), bytes.NewReader(data)); err != nil {
				schemaErr = fmt.Errorf("add schema %s: %w", entry.Name(), err)
				return
			}
		}

		set := make(map[string]*jsonschema.Schema, len(entries))
		for _, entry := range entries {
			schema, err := compiler.Compile(schemaBase + entry.Name())
			if err != nil {
				schemaErr = fmt.Errorf("compile schema %s: %w", entry.Name(), err)
				return
			}
			set[entry.Name()] = schema
		}
		schemaSet = set
	})
	return schemaSet, schemaErr
}

// Validate checks a descriptor's content against the schema for its kind.
func Validate(desc Descriptor) error {
	if !desc.Kind.Known() {
		return fmt.Errorf("unknown element kind %q", desc.Kind)
	}
	set, err := compiledSchemas()
	if err != nil {
		return err
	}
	name, ok := schemaFiles[desc.Kind]
	if !ok {
		name = "object.json"
	}

	var instance any = map[string]any{}
	if len(bytes.TrimSpace(desc.Content)) > 0 {
		if err := json.Unmarshal(desc.Content, &instance); err != nil {
			return fmt.Errorf("%s content is not valid JSON: %w", desc.Kind, err)
		}
	}
	if err := set[name].Validate(instance); err != nil {
		return fmt.Errorf("%s content: %w", desc.Kind, err)
	}
	return nil
}

// Hydrate maps a descriptor onto a fresh subtree. It usually returns one node;
// a gallery with a heading returns the heading and the gallery as siblings.
// Invalid or unknown descriptors yield nil.
func Hydrate(desc Descriptor) []*page.Node {
	if err := Validate(desc); err != nil {
		return nil
	}
	switch desc.Kind {
	case page.KindHeading, page.KindText, page.KindQuote:
		return one(hydrateRichText(desc))
	case page.KindHero:
		return one(hydrateHero(desc))
	case page.KindSplitImage, page.KindSplitVideo:
		return one(hydrateSplit(desc))
	case page.KindSteps:
		return one(hydrateSteps(desc))
	case page.KindGallery:
		return hydrateGallery(desc)
	case page.KindColumns:
		return one(hydrateColumns(desc))
	}
	if desc.Kind.IsContainer() {
		return one(hydrateContainer(desc))
	}
	n := build(desc.Kind, nil)
	mergeContent(n, desc.Content)
	return one(n)
}

// HydrateAll hydrates descriptors in order, dropping the ones that yield nothing.
func HydrateAll(descs []Descriptor) []*page.Node {
	var out []*page.Node
	for _, d := range descs {
		out = append(out, Hydrate(d)...)
	}
	return out
}

func one(n *page.Node) []*page.Node {
	if n == nil {
		return nil
	}
	return []*page.Node{n}
}

// mergeContent overlays the descriptor's top-level fields on the node's default
// payload, skipping the named keys.
func mergeContent(n *page.Node, raw json.RawMessage, skip ...string) {
	if !n.Kind.IsStructured() || len(bytes.TrimSpace(raw)) == 0 {
		return
	}
	base := page.ParseObject(n.Content)
	over := page.ParseObject(string(raw))
	for _, k := range skip {
		delete(over, k)
	}
	for k, v := range over {
		base[k] = v
	}
	n.Content = normalizeContent(n.Kind, encodeLiteral(base))
}

func richText(kind page.Kind, text string) string {
	escaped := html.EscapeString(text)
	if kind == page.KindHeading {
		return escaped
	}
	return "<p>" + escaped + "</p>"
}

func textNode(kind page.Kind, text string) *page.Node {
	n := build(kind, nil)
	n.Content = richText(kind, text)
	return n
}

func hydrateRichText(desc Descriptor) *page.Node {
	var c struct {
		Text string `json:"text"`
		HTML string `json:"html"`
	}
	_ = json.Unmarshal(desc.Content, &c)
	n := build(desc.Kind, nil)
	if c.HTML != "" {
		n.Content = c.HTML
	} else {
		n.Content = richText(desc.Kind, c.Text)
	}
	return n
}

func hydrateHero(desc Descriptor) *page.Node {
	var c struct {
		Heading    string `json:"heading"`
		Subheading string `json:"subheading"`
		CTALabel   string `json:"ctaLabel"`
		CTAHref    string `json:"ctaHref"`
	}
	_ = json.Unmarshal(desc.Content, &c)

	n := build(page.KindHero, nil)
	mergeContent(n, desc.Content, "heading", "subheading", "ctaLabel", "ctaHref")

	n.Children = []*page.Node{textNode(page.KindHeading, c.Heading)}
	if c.Subheading != "" {
		n.Children = append(n.Children, textNode(page.KindText, c.Subheading))
	}
	if c.CTALabel != "" {
		btn := build(page.KindButton, nil)
		href := c.CTAHref
		if href == "" {
			href = "#"
		}
		btn.Content = page.EncodeContent(&page.ButtonContent{Label: c.CTALabel, Href: href})
		n.Children = append(n.Children, btn)
	}
	return n
}

func hydrateSplit(desc Descriptor) *page.Node {
	var c struct {
		Heading string `json:"heading"`
		Body    string `json:"body"`
	}
	_ = json.Unmarshal(desc.Content, &c)

	n := build(desc.Kind, nil)
	mergeContent(n, desc.Content, "heading", "body")
	if c.Heading == "" && c.Body == "" {
		return n
	}
	n.Children = nil
	if c.Heading != "" {
		n.Children = append(n.Children, textNode(page.KindHeading, c.Heading))
	}
	if c.Body != "" {
		n.Children = append(n.Children, textNode(page.KindText, c.Body))
	}
	return n
}

func hydrateSteps(desc Descriptor) *page.Node {
	var c struct {
		Heading string `json:"heading"`
		Steps   []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"steps"`
	}
	_ = json.Unmarshal(desc.Content, &c)

	n := build(page.KindSteps, nil)
	n.Children = nil
	if c.Heading != "" {
		n.Children = append(n.Children, textNode(page.KindHeading, c.Heading))
	}
	for i, step := range c.Steps {
		if i > 0 {
			n.Children = append(n.Children, build(page.KindConnector, nil))
		}
		block := build(page.KindStepBlock, nil)
		block.Children = []*page.Node{textNode(page.KindHeading, step.Title)}
		if step.Description != "" {
			block.Children = append(block.Children, textNode(page.KindText, step.Description))
		}
		n.Children = append(n.Children, block)
	}
	return n
}

func hydrateGallery(desc Descriptor) []*page.Node {
	var c struct {
		Heading string `json:"heading"`
	}
	_ = json.Unmarshal(desc.Content, &c)

	n := build(page.KindGallery, nil)
	mergeContent(n, desc.Content, "heading")
	if c.Heading == "" {
		return []*page.Node{n}
	}
	return []*page.Node{textNode(page.KindHeading, c.Heading), n}
}

func hydrateColumns(desc Descriptor) *page.Node {
	var c struct {
		Gap     string         `json:"gap"`
		Columns [][]Descriptor `json:"columns"`
	}
	if err := json.Unmarshal(desc.Content, &c); err != nil {
		return nil
	}

	n := NewColumns(len(c.Columns))
	cc := page.ParseColumns(n.Content)
	cc.Gap = c.Gap
	for i, descs := range c.Columns {
		cc.Columns[i].Children = HydrateAll(descs)
	}
	n.Content = page.EncodeContent(cc)
	return n
}

func hydrateContainer(desc Descriptor) *page.Node {
	var c struct {
		Children []Descriptor `json:"children"`
	}
	_ = json.Unmarshal(desc.Content, &c)

	n := build(desc.Kind, nil)
	mergeContent(n, desc.Content, "children")
	if c.Children != nil {
		n.Children = HydrateAll(c.Children)
	}
	return n
}
