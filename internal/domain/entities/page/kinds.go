package page

import "sort"

// Kind is the closed set of element kinds a page tree can hold.
type Kind string

const (
	// Layout containers
	KindSection     Kind = "section"
	KindContainer   Kind = "container"
	KindColumns     Kind = "columns"
	KindGrid        Kind = "grid"
	KindRow         Kind = "row"
	KindCard        Kind = "card"
	KindHero        Kind = "hero"
	KindSplitImage  Kind = "split-image-section"
	KindSplitVideo  Kind = "split-video-section"
	KindNavbar      Kind = "navbar"
	KindFooter      Kind = "footer"
	KindCTA         Kind = "cta"
	KindStepBlock   Kind = "step-block"
	KindSteps       Kind = "steps"
	KindAutoScroll  Kind = "auto-scroll"
	KindSingleAuto  Kind = "single-auto-scroll"
	KindCardContent Kind = "card-content"

	// Content leaves
	KindHeading   Kind = "heading"
	KindText      Kind = "text"
	KindQuote     Kind = "quote"
	KindButton    Kind = "button"
	KindLink      Kind = "link"
	KindImage     Kind = "image"
	KindVideo     Kind = "video"
	KindDivider   Kind = "divider"
	KindSpacer    Kind = "spacer"
	KindIcon      Kind = "icon"
	KindList      Kind = "list"
	KindCode      Kind = "code"
	KindMap       Kind = "map"
	KindEmbed     Kind = "embed"
	KindConnector Kind = "connector"

	// Structured composites
	KindFeatures     Kind = "features"
	KindTestimonials Kind = "testimonials"
	KindPricing      Kind = "pricing"
	KindFAQ          Kind = "faq"
	KindStats        Kind = "stats"
	KindTeam         Kind = "team"
	KindLogoCloud    Kind = "logo-cloud"

	// Media sliders
	KindImageCarousel Kind = "image-carousel"
	KindHeroSlider    Kind = "hero-slider"
	KindGallery       Kind = "gallery"

	// Form-like composites
	KindForm        Kind = "form"
	KindContactForm Kind = "contact-form"
	KindNewsletter  Kind = "newsletter"
)

// CanvasKey is the sentinel parent id addressing the top-level node list.
const CanvasKey = "canvas"

type kindTraits struct {
	container  bool
	richText   bool
	timed      bool
	canvasOnly bool
}

var traits = map[Kind]kindTraits{
	KindSection:     {container: true},
	KindContainer:   {container: true},
	KindColumns:     {container: true},
	KindGrid:        {container: true},
	KindRow:         {container: true},
	KindCard:        {container: true},
	KindCardContent: {container: true},
	KindHero:        {container: true},
	KindSplitImage:  {container: true},
	KindSplitVideo:  {container: true},
	KindNavbar:      {canvasOnly: true},
	KindFooter:      {container: true, canvasOnly: true},
	KindCTA:         {container: true},
	KindStepBlock:   {container: true},
	KindSteps:       {container: true},
	KindAutoScroll:  {container: true, timed: true},
	KindSingleAuto:  {container: true, timed: true},

	KindHeading:   {richText: true},
	KindText:      {richText: true},
	KindQuote:     {richText: true},
	KindButton:    {},
	KindLink:      {},
	KindImage:     {},
	KindVideo:     {},
	KindDivider:   {},
	KindSpacer:    {},
	KindIcon:      {},
	KindList:      {},
	KindCode:      {},
	KindMap:       {},
	KindEmbed:     {},
	KindConnector: {},

	KindFeatures:     {},
	KindTestimonials: {},
	KindPricing:      {},
	KindFAQ:          {},
	KindStats:        {},
	KindTeam:         {},
	KindLogoCloud:    {},

	KindImageCarousel: {timed: true},
	KindHeroSlider:    {timed: true},
	KindGallery:       {},

	KindForm:        {},
	KindContactForm: {},
	KindNewsletter:  {},
}

// Known reports whether k is part of the closed kind set.
func (k Kind) Known() bool {
	_, ok := traits[k]
	return ok
}

// IsContainer reports whether nodes of this kind hold ordinary children.
func (k Kind) IsContainer() bool { return traits[k].container }

// IsRichText reports whether content is an inline-editable HTML fragment.
func (k Kind) IsRichText() bool { return traits[k].richText }

// IsTimed reports whether the kind cycles an active slide on a timer.
func (k Kind) IsTimed() bool { return traits[k].timed }

// IsCanvasOnly reports whether the kind may only live on the top-level canvas.
func (k Kind) IsCanvasOnly() bool { return traits[k].canvasOnly }

// Kinds returns every known kind in name order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(traits))
	for k := range traits {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
