package factory

import (
	"encoding/json"
	"testing"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCoversEveryKind(t *testing.T) {
	for _, k := range page.Kinds() {
		e, ok := Lookup(k)
		require.True(t, ok, "catalog entry for %s", k)
		assert.NotEmpty(t, e.Label, k)
		assert.NotEmpty(t, e.Category, k)
	}
	assert.Len(t, Catalog(), len(page.Kinds()))
}

func TestCatalogFlagsFollowKindTraits(t *testing.T) {
	nav, _ := Lookup(page.KindNavbar)
	assert.True(t, nav.CanvasOnly)

	carousel, _ := Lookup(page.KindImageCarousel)
	assert.True(t, carousel.Timed)

	text, _ := Lookup(page.KindText)
	assert.True(t, text.RichText)
	assert.False(t, text.CanvasOnly)
}

func TestLoadCatalogRejectsUnknownKinds(t *testing.T) {
	_, err := loadCatalog([]byte("marquee:\n  label: Marquee\n"))
	assert.Error(t, err)

	_, err = loadCatalog([]byte("section:\n  label: S\n  children:\n    - kind: blink\n"))
	assert.Error(t, err)
}

func TestCreateNodeInitializesAllBuckets(t *testing.T) {
	for _, k := range page.Kinds() {
		nodes := CreateNode(k)
		require.Len(t, nodes, 1, k)
		n := nodes[0]
		assert.Equal(t, k, n.Kind)
		assert.NotEmpty(t, n.ID)
		for _, bp := range page.Breakpoints {
			for _, st := range page.StyleStates {
				assert.NotNil(t, n.Styles.Bucket(bp, st), "%s %s/%s", k, bp, st)
			}
		}
	}
}

func TestCreateNodeUnknownKind(t *testing.T) {
	assert.Nil(t, CreateNode(page.Kind("marquee")))
}

func TestCreateStepsComposite(t *testing.T) {
	n := CreateNode(page.KindSteps)[0]
	kinds := make([]page.Kind, 0, len(n.Children))
	for _, c := range n.Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []page.Kind{
		page.KindHeading,
		page.KindStepBlock, page.KindConnector,
		page.KindStepBlock, page.KindConnector,
		page.KindStepBlock,
	}, kinds)
}

func TestCreateColumnsHasTwoEmptyColumns(t *testing.T) {
	n := CreateNode(page.KindColumns)[0]
	cc := page.ParseColumns(n.Content)
	require.Len(t, cc.Columns, 2)
	assert.NotEqual(t, cc.Columns[0].ID, cc.Columns[1].ID)
	assert.Empty(t, cc.Columns[0].Children)
	assert.NotEmpty(t, cc.Columns[0].ID)
}

func TestCreateNodeIdsAreUnique(t *testing.T) {
	a := CreateNode(page.KindNavbar)[0]
	b := CreateNode(page.KindNavbar)[0]

	seen := map[string]bool{}
	for _, id := range append(a.CollectIDs(), b.CollectIDs()...) {
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestCreateNodeAppliesBreakpointDefaults(t *testing.T) {
	n := CreateNode(page.KindHeading)[0]
	assert.Equal(t, "36px", n.Styles.Bucket(page.Desktop, page.StateDefault)["fontSize"])
	assert.Equal(t, "28px", n.Styles.Bucket(page.Mobile, page.StateDefault)["fontSize"])
}

func TestNewColumns(t *testing.T) {
	cc := page.ParseColumns(NewColumns(3).Content)
	assert.Len(t, cc.Columns, 3)
	assert.Len(t, page.ParseColumns(NewColumns(0).Content).Columns, 1)
}

func descriptor(kind page.Kind, content string) Descriptor {
	return Descriptor{Kind: kind, Content: json.RawMessage(content)}
}

func TestHydrateRichTextEscapes(t *testing.T) {
	nodes := Hydrate(descriptor(page.KindText, `{"text":"a < b"}`))
	require.Len(t, nodes, 1)
	assert.Equal(t, "<p>a &lt; b</p>", nodes[0].Content)

	nodes = Hydrate(descriptor(page.KindHeading, `{"text":"Hello"}`))
	require.Len(t, nodes, 1)
	assert.Equal(t, "Hello", nodes[0].Content)
}

func TestHydrateRejectsInvalid(t *testing.T) {
	assert.Nil(t, Hydrate(descriptor(page.Kind("marquee"), `{}`)))
	assert.Nil(t, Hydrate(descriptor(page.KindFAQ, `{"items":[{"question":"q"}]}`)))
	assert.Nil(t, Hydrate(descriptor(page.KindButton, `{"href":"/x"}`)))
	assert.Nil(t, Hydrate(descriptor(page.KindImage, `not json`)))
	assert.Error(t, Validate(descriptor(page.KindSplitImage, `{"position":"top"}`)))
}

func TestHydrateFAQAssignsIDs(t *testing.T) {
	nodes := Hydrate(descriptor(page.KindFAQ, `{"items":[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]}`))
	require.Len(t, nodes, 1)
	faq := page.ParseAs[page.FAQContent](nodes[0].Content)
	require.Len(t, faq.Items, 2)
	assert.Equal(t, "Q2", faq.Items[1].Question)
	assert.NotEmpty(t, faq.Items[0].ID)
	assert.NotEqual(t, faq.Items[0].ID, faq.Items[1].ID)
}

func TestHydrateGalleryWithHeadingReturnsPair(t *testing.T) {
	nodes := Hydrate(descriptor(page.KindGallery, `{"heading":"Our work","images":[{"src":"a.jpg"},{"src":"b.jpg"}]}`))
	require.Len(t, nodes, 2)
	assert.Equal(t, page.KindHeading, nodes[0].Kind)
	assert.Equal(t, "Our work", nodes[0].Content)
	assert.Equal(t, page.KindGallery, nodes[1].Kind)

	g := page.ParseAs[page.GalleryContent](nodes[1].Content)
	assert.Len(t, g.Images, 2)
	assert.NotContains(t, nodes[1].Content, "heading")

	nodes = Hydrate(descriptor(page.KindGallery, `{"images":[]}`))
	require.Len(t, nodes, 1)
}

func TestHydrateHero(t *testing.T) {
	nodes := Hydrate(descriptor(page.KindHero, `{"heading":"Welcome","ctaLabel":"Go","backgroundImage":"bg.jpg"}`))
	require.Len(t, nodes, 1)
	hero := nodes[0]
	require.Len(t, hero.Children, 2)
	assert.Equal(t, page.KindHeading, hero.Children[0].Kind)
	assert.Equal(t, page.KindButton, hero.Children[1].Kind)

	btn := page.ParseAs[page.ButtonContent](hero.Children[1].Content)
	assert.Equal(t, "Go", btn.Label)
	assert.Equal(t, "#", btn.Href)

	hc := page.ParseAs[page.HeroContent](hero.Content)
	assert.Equal(t, "bg.jpg", hc.BackgroundImage)
}

func TestHydrateStepsJoinsWithConnectors(t *testing.T) {
	nodes := Hydrate(descriptor(page.KindSteps, `{"steps":[{"title":"One"},{"title":"Two","description":"d"}]}`))
	require.Len(t, nodes, 1)
	kids := nodes[0].Children
	require.Len(t, kids, 3)
	assert.Equal(t, page.KindStepBlock, kids[0].Kind)
	assert.Equal(t, page.KindConnector, kids[1].Kind)
	assert.Len(t, kids[2].Children, 2)
}

func TestHydrateNestedColumns(t *testing.T) {
	nodes := Hydrate(descriptor(page.KindColumns, `{"columns":[
		[{"kind":"heading","content":{"text":"Left"}}],
		[{"kind":"image","content":{"src":"x.png"}},{"kind":"bogus"}]
	]}`))
	require.Len(t, nodes, 1)
	cc := page.ParseColumns(nodes[0].Content)
	require.Len(t, cc.Columns, 2)
	require.Len(t, cc.Columns[0].Children, 1)
	require.Len(t, cc.Columns[1].Children, 1)
	assert.Equal(t, page.KindImage, cc.Columns[1].Children[0].Kind)
	assert.Equal(t, 3, page.CountNodes(nodes))
}

func TestHydrateSectionChildren(t *testing.T) {
	nodes := HydrateAll([]Descriptor{
		descriptor(page.KindSection, `{"children":[{"kind":"heading","content":{"text":"A"}},{"kind":"text","content":{"html":"<p><b>B</b></p>"}}]}`),
		descriptor(page.KindDivider, ``),
		descriptor(page.Kind("nope"), `{}`),
	})
	require.Len(t, nodes, 2)
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, "<p><b>B</b></p>", nodes[0].Children[1].Content)
	assert.Equal(t, page.KindDivider, nodes[1].Kind)
}

func TestHydrateMergesOntoDefaults(t *testing.T) {
	nodes := Hydrate(descriptor(page.KindVideo, `{"url":"https://example.com/v.mp4"}`))
	require.Len(t, nodes, 1)
	v := page.ParseAs[page.VideoContent](nodes[0].Content)
	assert.Equal(t, "https://example.com/v.mp4", v.URL)
	assert.True(t, v.Controls)
}
