package page

import (
	"encoding/json"
	"strings"
)

// IDCarrier is implemented by content payloads that hold identifiers sharing the
// node-id uniqueness rule.
type IDCarrier interface {
	ContentIDs() []string
	RefreshIDs(gen IDGenerator)
}

var contentTypes = map[Kind]func() any{
	KindColumns:       func() any { return &ColumnsContent{} },
	KindHero:          func() any { return &HeroContent{} },
	KindSplitImage:    func() any { return &SplitMediaContent{} },
	KindSplitVideo:    func() any { return &SplitMediaContent{} },
	KindNavbar:        func() any { return &NavbarContent{} },
	KindFooter:        func() any { return &FooterContent{} },
	KindAutoScroll:    func() any { return &AutoScrollContent{} },
	KindSingleAuto:    func() any { return &AutoScrollContent{} },
	KindButton:        func() any { return &ButtonContent{} },
	KindLink:          func() any { return &ButtonContent{} },
	KindImage:         func() any { return &ImageContent{} },
	KindVideo:         func() any { return &VideoContent{} },
	KindIcon:          func() any { return &IconContent{} },
	KindList:          func() any { return &ListContent{} },
	KindCode:          func() any { return &CodeContent{} },
	KindMap:           func() any { return &MapContent{} },
	KindEmbed:         func() any { return &EmbedContent{} },
	KindFeatures:      func() any { return &FeaturesContent{} },
	KindTestimonials:  func() any { return &TestimonialsContent{} },
	KindPricing:       func() any { return &PricingContent{} },
	KindFAQ:           func() any { return &FAQContent{} },
	KindStats:         func() any { return &StatsContent{} },
	KindTeam:          func() any { return &TeamContent{} },
	KindLogoCloud:     func() any { return &LogoCloudContent{} },
	KindImageCarousel: func() any { return &SlidesContent{} },
	KindHeroSlider:    func() any { return &SlidesContent{} },
	KindGallery:       func() any { return &GalleryContent{} },
	KindForm:          func() any { return &FormContent{} },
	KindContactForm:   func() any { return &FormContent{} },
	KindNewsletter:    func() any { return &FormContent{} },
}

// IsStructured reports whether the kind stores a JSON object in content.
func (k Kind) IsStructured() bool {
	_, ok := contentTypes[k]
	return ok
}

// DecodeContent parses raw into the kind's content type. Malformed or empty input
// yields the zero value of that type. Kinds without a schema return nil.
func DecodeContent(kind Kind, raw string) any {
	factory, ok := contentTypes[kind]
	if !ok {
		return nil
	}
	v := factory()
	if strings.TrimSpace(raw) == "" {
		return v
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return factory()
	}
	return v
}

// EncodeContent serializes a content payload back into its string form.
func EncodeContent(v any) string {
	if v == nil {
		return ""
	}
	if cc, ok := v.(*ColumnsContent); ok {
		cc.normalize()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// ParseAs decodes raw into T, returning the zero value when raw is not valid JSON.
func ParseAs[T any](raw string) T {
	var v T
	if strings.TrimSpace(raw) == "" {
		return v
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// ParseObject decodes raw into a generic object; anything else becomes an empty map.
func ParseObject(raw string) map[string]any {
	obj := ParseAs[map[string]any](raw)
	if obj == nil {
		return map[string]any{}
	}
	return obj
}

// =============================================================================
// Columns
// =============================================================================

// Column is one cell of a columns node with its own ordered child list.
type Column struct {
	ID       string  `json:"id"`
	Children []*Node `json:"children"`
}

// ColumnsContent is the payload of a columns node.
type ColumnsContent struct {
	Columns []Column `json:"columns"`
	Gap     string   `json:"gap,omitempty"`
}

// ParseColumns decodes a columns payload leniently.
func ParseColumns(raw string) *ColumnsContent {
	cc := DecodeContent(KindColumns, raw).(*ColumnsContent)
	for i := range cc.Columns {
		cc.Columns[i].Children = compact(cc.Columns[i].Children)
	}
	return cc
}

func (c *ColumnsContent) normalize() {
	for i := range c.Columns {
		c.Columns[i].Children = compact(c.Columns[i].Children)
		if c.Columns[i].Children == nil {
			c.Columns[i].Children = []*Node{}
		}
	}
	if c.Columns == nil {
		c.Columns = []Column{}
	}
}

func (c *ColumnsContent) ContentIDs() []string {
	var ids []string
	for _, col := range c.Columns {
		ids = append(ids, col.ID)
		for _, n := range col.Children {
			ids = append(ids, n.CollectIDs()...)
		}
	}
	return ids
}

func (c *ColumnsContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Columns {
		c.Columns[i].ID = gen("col")
		for _, n := range c.Columns[i].Children {
			n.refreshIDs(gen)
		}
	}
}

// =============================================================================
// Sections and media
// =============================================================================

// HeroContent holds hero background settings.
type HeroContent struct {
	BackgroundImage string  `json:"backgroundImage,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	OverlayColor    string  `json:"overlayColor,omitempty"`
	OverlayOpacity  float64 `json:"overlayOpacity,omitempty"`
	MinHeight       string  `json:"minHeight,omitempty"`
}

// SplitMediaContent describes the media pane of a split section.
type SplitMediaContent struct {
	MediaURL string `json:"mediaUrl,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Poster   string `json:"poster,omitempty"`
	Position string `json:"position,omitempty"` // "left" or "right"
	Size     string `json:"size,omitempty"`     // "narrow", "equal" or "wide"
}

// VideoContent holds video playback settings.
type VideoContent struct {
	URL      string `json:"url,omitempty"`
	Poster   string `json:"poster,omitempty"`
	Autoplay bool   `json:"autoplay,omitempty"`
	Loop     bool   `json:"loop,omitempty"`
	Muted    bool   `json:"muted,omitempty"`
	Controls bool   `json:"controls,omitempty"`
}

// ImageContent describes a single image.
type ImageContent struct {
	Src  string `json:"src,omitempty"`
	Alt  string `json:"alt,omitempty"`
	Href string `json:"href,omitempty"`
}

// ButtonContent is shared by button and link kinds.
type ButtonContent struct {
	Label  string `json:"label,omitempty"`
	Href   string `json:"href,omitempty"`
	Target string `json:"target,omitempty"`
}

type IconContent struct {
	Name string `json:"name,omitempty"`
	Size string `json:"size,omitempty"`
}

type CodeContent struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code,omitempty"`
}

type MapContent struct {
	Address string `json:"address,omitempty"`
	Zoom    int    `json:"zoom,omitempty"`
}

// EmbedContent points at an external https document shown in a frame.
type EmbedContent struct {
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
	Height string `json:"height,omitempty"`
}

// AutoScrollContent configures the child-cycling slider kinds.
type AutoScrollContent struct {
	IntervalMs int `json:"intervalMs,omitempty"`
}

// =============================================================================
// Id-carrying payloads
// =============================================================================

// NavLink is a labelled link inside navbar and footer payloads.
type NavLink struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

type NavbarContent struct {
	Brand string    `json:"brand,omitempty"`
	Logo  string    `json:"logo,omitempty"`
	Links []NavLink `json:"links"`
}

func (c *NavbarContent) ContentIDs() []string { return navLinkIDs(c.Links) }
func (c *NavbarContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Links {
		c.Links[i].ID = gen("link")
	}
}

type FooterContent struct {
	Text  string    `json:"text,omitempty"`
	Links []NavLink `json:"links"`
}

func (c *FooterContent) ContentIDs() []string { return navLinkIDs(c.Links) }
func (c *FooterContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Links {
		c.Links[i].ID = gen("link")
	}
}

func navLinkIDs(links []NavLink) []string {
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ID)
	}
	return ids
}

type ListItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ListContent struct {
	Ordered bool       `json:"ordered,omitempty"`
	Items   []ListItem `json:"items"`
}

func (c *ListContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func (c *ListContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Items {
		c.Items[i].ID = gen("item")
	}
}

type FeatureItem struct {
	ID          string `json:"id"`
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type FeaturesContent struct {
	Items []FeatureItem `json:"items"`
}

func (c *FeaturesContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func (c *FeaturesContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Items {
		c.Items[i].ID = gen("feature")
	}
}

type Testimonial struct {
	ID     string `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author,omitempty"`
	Role   string `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type TestimonialsContent struct {
	Items []Testimonial `json:"items"`
}

func (c *TestimonialsContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func (c *TestimonialsContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Items {
		c.Items[i].ID = gen("testimonial")
	}
}

type PricingPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period,omitempty"`
	Features    []string `json:"features,omitempty"`
	CTALabel    string   `json:"ctaLabel,omitempty"`
	CTAHref     string   `json:"ctaHref,omitempty"`
	Highlighted bool     `json:"highlighted,omitempty"`
}

type PricingContent struct {
	Plans []PricingPlan `json:"plans"`
}

func (c *PricingContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Plans))
	for _, p := range c.Plans {
		ids = append(ids, p.ID)
	}
	return ids
}

func (c *PricingContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Plans {
		c.Plans[i].ID = gen("plan")
	}
}

// FAQItem is one question/answer pair.
type FAQItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQContent struct {
	Items []FAQItem `json:"items"`
}

func (c *FAQContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func (c *FAQContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Items {
		c.Items[i].ID = gen("faq")
	}
}

type StatItem struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
}

type StatsContent struct {
	Items []StatItem `json:"items"`
}

func (c *StatsContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func (c *StatsContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Items {
		c.Items[i].ID = gen("stat")
	}
}

type TeamMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Photo string `json:"photo,omitempty"`
}

type TeamContent struct {
	Members []TeamMember `json:"members"`
}

func (c *TeamContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

func (c *TeamContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Members {
		c.Members[i].ID = gen("member")
	}
}

type Logo struct {
	ID   string `json:"id"`
	Src  string `json:"src"`
	Alt  string `json:"alt,omitempty"`
	Href string `json:"href,omitempty"`
}

type LogoCloudContent struct {
	Logos []Logo `json:"logos"`
}

func (c *LogoCloudContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Logos))
	for _, l := range c.Logos {
		ids = append(ids, l.ID)
	}
	return ids
}

func (c *LogoCloudContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Logos {
		c.Logos[i].ID = gen("logo")
	}
}

// Slide is one frame of an image carousel or hero slider.
type Slide struct {
	ID       string `json:"id"`
	Image    string `json:"image"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Href     string `json:"href,omitempty"`
}

type SlidesContent struct {
	Slides     []Slide `json:"slides"`
	IntervalMs int     `json:"intervalMs,omitempty"`
}

func (c *SlidesContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Slides))
	for _, s := range c.Slides {
		ids = append(ids, s.ID)
	}
	return ids
}

func (c *SlidesContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Slides {
		c.Slides[i].ID = gen("slide")
	}
}

type GalleryImage struct {
	ID      string `json:"id"`
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

type GalleryContent struct {
	Images  []GalleryImage `json:"images"`
	Columns int            `json:"columns,omitempty"`
}

func (c *GalleryContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Images))
	for _, im := range c.Images {
		ids = append(ids, im.ID)
	}
	return ids
}

func (c *GalleryContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Images {
		c.Images[i].ID = gen("image")
	}
}

// FormField is one input of a form-like composite.
type FormField struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label,omitempty"`
	Type        string   `json:"type"`
	Placeholder string   `json:"placeholder,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Options     []string `json:"options,omitempty"`
}

type FormContent struct {
	Title       string      `json:"title,omitempty"`
	SubmitLabel string      `json:"submitLabel,omitempty"`
	Action      string      `json:"action,omitempty"`
	Fields      []FormField `json:"fields"`
}

func (c *FormContent) ContentIDs() []string {
	ids := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		ids = append(ids, f.ID)
	}
	return ids
}

func (c *FormContent) RefreshIDs(gen IDGenerator) {
	for i := range c.Fields {
		c.Fields[i].ID = gen("field")
	}
}
