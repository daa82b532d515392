package page

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeIDFormat(t *testing.T) {
	id := NewNodeID(KindHeading)
	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "heading", parts[0])
	assert.Len(t, parts[2], 9)

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := NewNodeID(KindText)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNodeUnmarshalEnsuresBuckets(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","kind":"text","styles":{"desktop":{"default":{"fontSize":12,"bold":true}}}}`), &n))

	for _, bp := range Breakpoints {
		for _, st := range StyleStates {
			assert.NotNil(t, n.Styles.Bucket(bp, st), "%s/%s", bp, st)
		}
	}
	assert.Equal(t, "12", n.Styles[Desktop][StateDefault]["fontSize"])
	assert.Equal(t, "true", n.Styles[Desktop][StateDefault]["bold"])
}

func TestCloneIsDeep(t *testing.T) {
	n := &Node{ID: "p", Kind: KindSection, Styles: NewStyles(), Children: []*Node{
		{ID: "c", Kind: KindText, Content: "<p>x</p>", Styles: NewStyles()},
	}}
	n.Styles[Desktop][StateDefault]["color"] = "red"

	cp := n.Clone()
	cp.Children[0].Content = "changed"
	cp.Styles[Desktop][StateDefault]["color"] = "blue"

	assert.Equal(t, "<p>x</p>", n.Children[0].Content)
	assert.Equal(t, "red", n.Styles[Desktop][StateDefault]["color"])
}

func TestDecodeContentIsLenient(t *testing.T) {
	faq, ok := DecodeContent(KindFAQ, "{not json").(*FAQContent)
	require.True(t, ok)
	assert.Empty(t, faq.Items)

	cc := ParseColumns("")
	assert.Empty(t, cc.Columns)

	assert.Nil(t, DecodeContent(KindText, "<p>hi</p>"))
	assert.Equal(t, map[string]any{}, ParseObject("[1,2]"))
}

func TestRefreshIDsCoversNestedPayloads(t *testing.T) {
	inner := &Node{ID: "form-1", Kind: KindForm, Styles: NewStyles(),
		Content: `{"fields":[{"id":"field-1","name":"email","type":"email"}]}`}
	cols := &ColumnsContent{Columns: []Column{{ID: "col-1", Children: []*Node{inner}}, {ID: "col-2"}}}
	root := &Node{ID: "columns-1", Kind: KindColumns, Styles: NewStyles(), Content: EncodeContent(cols)}

	before := root.CollectIDs()
	assert.ElementsMatch(t, []string{"columns-1", "col-1", "form-1", "field-1", "col-2"}, before)

	cp := root.Clone()
	cp.RefreshIDs()
	after := cp.CollectIDs()
	require.Len(t, after, len(before))
	for _, id := range after {
		assert.NotContains(t, before, id)
	}
}

func TestCountNodesWalksColumns(t *testing.T) {
	cols := &ColumnsContent{Columns: []Column{
		{ID: "a", Children: []*Node{{ID: "x", Kind: KindText}, {ID: "y", Kind: KindSection, Children: []*Node{{ID: "z", Kind: KindText}}}}},
		{ID: "b"},
	}}
	nodes := []*Node{{ID: "c", Kind: KindColumns, Content: EncodeContent(cols)}, {ID: "t", Kind: KindText}}
	assert.Equal(t, 5, CountNodes(nodes))
}

func TestOpenSlotsCommitWritesBack(t *testing.T) {
	n := &Node{ID: "c", Kind: KindColumns, Content: EncodeContent(&ColumnsContent{Columns: []Column{{ID: "a"}, {ID: "b"}}})}
	slots, commit := OpenSlots(n)
	require.Len(t, slots, 3)

	*slots[2].Nodes = append(*slots[2].Nodes, &Node{ID: "new", Kind: KindText})
	assert.Equal(t, 0, CountNodes(ParseColumns(n.Content).Columns[1].Children))

	commit()
	assert.Equal(t, "new", ParseColumns(n.Content).Columns[1].Children[0].ID)

	slot, ok := TargetSlot(slots, n, "c")
	require.True(t, ok)
	assert.Equal(t, "a", slot.ID)
}

func TestPageStylesMerge(t *testing.T) {
	font := "Inter"
	base := PageStyles{BackgroundColor: "#fff", Colors: map[string]string{"primary": "red"}}
	out := base.Merge(PageStylesPatch{FontFamily: &font, Colors: map[string]string{"accent": "blue"}})

	assert.Equal(t, "Inter", out.FontFamily)
	assert.Equal(t, "#fff", out.BackgroundColor)
	assert.Equal(t, map[string]string{"accent": "blue"}, out.Colors)
	assert.Equal(t, "red", base.Colors["primary"])
}

func TestParseDocumentDropsNullNodes(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"content":[null,{"id":"s1","kind":"section","children":[null,{"id":"t1","kind":"text"}]},null]}`))
	require.NoError(t, err)
	require.Len(t, doc.Content, 1)
	require.Len(t, doc.Content[0].Children, 1)
	assert.Equal(t, 2, CountNodes(doc.Content))

	doc, err = ParseDocument([]byte(`{"content":[null]}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Content)
	assert.NotNil(t, doc.Content)
	assert.Equal(t, 0, CountNodes(doc.Content))
}

func TestColumnsPayloadDropsNullChildren(t *testing.T) {
	cc := ParseColumns(`{"columns":[{"id":"colA","children":[null,{"id":"t1","kind":"text"}]}]}`)
	require.Len(t, cc.Columns, 1)
	require.Len(t, cc.Columns[0].Children, 1)
	assert.Equal(t, "t1", cc.Columns[0].Children[0].ID)
}

func TestNilChildrenAreTolerated(t *testing.T) {
	n := &Node{ID: "s1", Kind: KindSection, Styles: NewStyles(), Children: []*Node{nil, {ID: "t1", Kind: KindText}}}

	require.NotPanics(t, func() {
		assert.Equal(t, []string{"s1", "t1"}, n.CollectIDs())
		assert.Equal(t, 2, CountNodes([]*Node{n, nil}))
		n.RefreshIDs()
	})
	assert.NotEqual(t, "s1", n.ID)
	assert.NotEqual(t, "t1", n.Children[1].ID)
	assert.True(t, HasNil(n.Children))

	out := Canonicalize([]*Node{nil, n})
	require.Len(t, out, 1)
	assert.False(t, HasNil(out[0].Children))
}
