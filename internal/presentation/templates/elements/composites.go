package templates

import (
	"fmt"
	"html/template"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

var compositeTmpl = template.Must(template.New("composite").Parse(
	`{{define "features"}}<div {{.Attrs}}>{{range .Items}}<div class="pb-feature" data-item-id="{{.ID}}">` +
		`{{if .Icon}}<span class="pb-feature-icon" data-icon="{{.Icon}}" aria-hidden="true"></span>{{end}}` +
		`<h3>{{.Title}}</h3>{{if .Description}}<p>{{.Description}}</p>{{end}}</div>{{end}}</div>{{end}}` +

		`{{define "testimonials"}}<div {{.Attrs}}>{{range .Items}}<figure class="pb-testimonial" data-item-id="{{.ID}}">` +
		`<blockquote>{{.Quote}}</blockquote>` +
		`{{if or .Author .Role}}<figcaption>{{if .Avatar}}<img src="{{.Avatar}}" alt="{{.Author}}" style="width: 40px; height: 40px; border-radius: 50%; object-fit: cover">{{end}}` +
		`{{if .Author}}<strong>{{.Author}}</strong>{{end}}{{if .Role}} <span>{{.Role}}</span>{{end}}</figcaption>{{end}}` +
		`</figure>{{end}}</div>{{end}}` +

		`{{define "pricing"}}<div {{.Attrs}}>{{range .Plans}}<div class="pb-plan{{if .Highlighted}} pb-plan-highlighted{{end}}" data-item-id="{{.ID}}">` +
		`<h3>{{.Name}}</h3><p class="pb-plan-price"><strong>{{.Price}}</strong>{{if .Period}}<span>/{{.Period}}</span>{{end}}</p>` +
		`{{if .Features}}<ul>{{range .Features}}<li>{{.}}</li>{{end}}</ul>{{end}}` +
		`{{if .CTALabel}}<a class="pb-plan-cta" role="button" href="{{.CTAHref}}">{{.CTALabel}}</a>{{end}}` +
		`</div>{{end}}</div>{{end}}` +

		`{{define "faq"}}<div {{.Attrs}}>{{range .Items}}<details class="pb-faq-item" data-item-id="{{.ID}}">` +
		`<summary>{{.Question}}</summary><div class="pb-faq-answer">{{.Answer}}</div></details>{{end}}</div>{{end}}` +

		`{{define "stats"}}<div {{.Attrs}}>{{range .Items}}<div class="pb-stat" data-item-id="{{.ID}}">` +
		`<strong class="pb-stat-value">{{.Value}}</strong><span class="pb-stat-label">{{.Label}}</span></div>{{end}}</div>{{end}}` +

		`{{define "team"}}<div {{.Attrs}}>{{range .Members}}<div class="pb-member" data-item-id="{{.ID}}">` +
		`{{if .Photo}}<img src="{{.Photo}}" alt="{{.Name}}" loading="lazy" style="width: 100%; aspect-ratio: 1; object-fit: cover">{{end}}` +
		`<h3>{{.Name}}</h3>{{if .Role}}<p>{{.Role}}</p>{{end}}</div>{{end}}</div>{{end}}` +

		`{{define "logos"}}<div {{.Attrs}}>{{range .Logos}}<div class="pb-logo" data-item-id="{{.ID}}">` +
		`{{if .Href}}<a href="{{.Href}}">{{end}}<img src="{{.Src}}" alt="{{.Alt}}" loading="lazy" style="max-height: 48px; width: auto">{{if .Href}}</a>{{end}}` +
		`</div>{{end}}</div>{{end}}` +

		`{{define "gallery"}}<div {{.Attrs}}>{{range .Images}}<figure class="pb-gallery-item" data-item-id="{{.ID}}" style="margin: 0">` +
		`<img src="{{.Src}}" alt="{{.Alt}}" loading="lazy" style="display: block; width: 100%; height: auto; object-fit: cover">` +
		`{{if .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}</figure>{{end}}</div>{{end}}`,
))

type compositeData struct {
	Attrs   template.HTMLAttr
	Items   any
	Plans   []page.PricingPlan
	Members []page.TeamMember
	Logos   []page.Logo
	Images  []page.GalleryImage
}

const gridLayout = "display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 24px"

// CompositeRenderer renders the structured composites whose sub-elements are parsed
// from content rather than stored as child nodes.
type CompositeRenderer struct {
	nodeRenderer NodeRenderer
}

// NewCompositeRenderer creates a new composite renderer
func NewCompositeRenderer(nodeRenderer NodeRenderer) *CompositeRenderer {
	return &CompositeRenderer{nodeRenderer: nodeRenderer}
}

func (r *CompositeRenderer) Render(n *page.Node) string {
	switch n.Kind {
	case page.KindFeatures:
		c := page.ParseAs[page.FeaturesContent](n.Content)
		return r.execute(n, "features", gridLayout, compositeData{Items: c.Items})

	case page.KindTestimonials:
		c := page.ParseAs[page.TestimonialsContent](n.Content)
		items := make([]page.Testimonial, 0, len(c.Items))
		for _, it := range c.Items {
			it.Avatar = optionalURL(it.Avatar)
			items = append(items, it)
		}
		return r.execute(n, "testimonials", gridLayout, compositeData{Items: items})

	case page.KindPricing:
		c := page.ParseAs[page.PricingContent](n.Content)
		plans := make([]page.PricingPlan, 0, len(c.Plans))
		for _, p := range c.Plans {
			p.CTAHref = SafeURL(p.CTAHref)
			plans = append(plans, p)
		}
		return r.execute(n, "pricing", gridLayout, compositeData{Plans: plans})

	case page.KindFAQ:
		c := page.ParseAs[page.FAQContent](n.Content)
		return r.execute(n, "faq", "display: flex; flex-direction: column; gap: 12px", compositeData{Items: c.Items})

	case page.KindStats:
		c := page.ParseAs[page.StatsContent](n.Content)
		return r.execute(n, "stats", gridLayout, compositeData{Items: c.Items})

	case page.KindTeam:
		c := page.ParseAs[page.TeamContent](n.Content)
		members := make([]page.TeamMember, 0, len(c.Members))
		for _, m := range c.Members {
			m.Photo = optionalURL(m.Photo)
			members = append(members, m)
		}
		return r.execute(n, "team", gridLayout, compositeData{Members: members})

	case page.KindLogoCloud:
		c := page.ParseAs[page.LogoCloudContent](n.Content)
		logos := make([]page.Logo, 0, len(c.Logos))
		for _, l := range c.Logos {
			if optionalURL(l.Src) == "" {
				continue
			}
			l.Href = optionalURL(l.Href)
			logos = append(logos, l)
		}
		return r.execute(n, "logos", "display: flex; flex-wrap: wrap; align-items: center; justify-content: center; gap: 32px", compositeData{Logos: logos})

	default:
		c := page.ParseAs[page.GalleryContent](n.Content)
		cols := c.Columns
		if cols < 1 || cols > 6 {
			cols = 3
		}
		if r.nodeRenderer.Context() != nil && r.nodeRenderer.Context().Breakpoint == page.Mobile {
			cols = 1
		}
		images := make([]page.GalleryImage, 0, len(c.Images))
		for _, im := range c.Images {
			if optionalURL(im.Src) == "" {
				continue
			}
			images = append(images, im)
		}
		layout := fmt.Sprintf("display: grid; grid-template-columns: repeat(%d, minmax(0, 1fr)); gap: 16px", cols)
		return r.execute(n, "gallery", layout, compositeData{Images: images})
	}
}

func (r *CompositeRenderer) execute(n *page.Node, name, layout string, data compositeData) string {
	data.Attrs = r.nodeRenderer.Attrs(n, layout)
	return execute(compositeTmpl, name, data, n.ID)
}

// optionalURL returns raw when it is safe to emit and "" otherwise.
func optionalURL(raw string) string {
	if raw == "" || SafeURL(raw) == "#" {
		return ""
	}
	return raw
}
