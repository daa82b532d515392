package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

func node(id string, kind page.Kind, children ...*page.Node) *page.Node {
	return &page.Node{ID: id, Kind: kind, Styles: page.NewStyles(), Children: children}
}

func columns(id string, cols ...page.Column) *page.Node {
	n := node(id, page.KindColumns)
	n.Content = page.EncodeContent(&page.ColumnsContent{Columns: cols})
	return n
}

// fixture: section(s1)[text(t1)], columns(c1){colA:[heading(h1), section(s2)[text(t2)]], colB:[]}
func fixture() []*page.Node {
	return []*page.Node{
		node("s1", page.KindSection, node("t1", page.KindText)),
		columns("c1",
			page.Column{ID: "colA", Children: []*page.Node{
				node("h1", page.KindHeading),
				node("s2", page.KindSection, node("t2", page.KindText)),
			}},
			page.Column{ID: "colB"},
		),
	}
}

func columnChildIDs(t *testing.T, root []*page.Node, columnsID string, col int) []string {
	t.Helper()
	n := Find(root, columnsID)
	require.NotNil(t, n)
	cc := page.ParseColumns(n.Content)
	require.Greater(t, len(cc.Columns), col)
	ids := []string{}
	for _, c := range cc.Columns[col].Children {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestFindReachesColumns(t *testing.T) {
	root := fixture()
	assert.Equal(t, page.KindText, Find(root, "t2").Kind)
	assert.Nil(t, Find(root, "missing"))

	parent, idx, ok := Locate(root, "s2")
	require.True(t, ok)
	assert.Equal(t, "colA", parent)
	assert.Equal(t, 1, idx)

	parent, _, ok = Locate(root, "c1")
	require.True(t, ok)
	assert.Equal(t, page.CanvasKey, parent)
}

func TestFindDoesNotRewritePayloads(t *testing.T) {
	root := fixture()
	root[1].Content = " " + root[1].Content
	before := root[1].Content
	require.NotNil(t, Find(root, "t2"))
	assert.Equal(t, before, root[1].Content)
}

func TestUpdateInsideColumnsIsWrittenBack(t *testing.T) {
	root := fixture()
	ok := Update(&root, "t2", func(n *page.Node) { n.Content = "x" })
	require.True(t, ok)

	assert.Equal(t, "x", Find(root, "t2").Content)
	cc := page.ParseColumns(root[1].Content)
	assert.Equal(t, "x", cc.Columns[0].Children[1].Children[0].Content)
}

func TestInsertAt(t *testing.T) {
	root := fixture()

	require.True(t, InsertAt(&root, page.CanvasKey, 99, node("end", page.KindText)))
	assert.Equal(t, "end", root[len(root)-1].ID)

	require.True(t, InsertAt(&root, page.CanvasKey, -5, node("start", page.KindText)))
	assert.Equal(t, "start", root[0].ID)

	require.True(t, InsertAt(&root, "colB", 0, node("b1", page.KindText), node("b2", page.KindText)))
	assert.Equal(t, []string{"b1", "b2"}, columnChildIDs(t, root, "c1", 1))

	require.True(t, InsertAt(&root, "c1", 1, node("a-mid", page.KindText)))
	assert.Equal(t, []string{"h1", "a-mid", "s2"}, columnChildIDs(t, root, "c1", 0))

	require.True(t, InsertAt(&root, "s2", 0, node("deep", page.KindText)))
	assert.Equal(t, "deep", Find(root, "s2").Children[0].ID)

	assert.False(t, InsertAt(&root, "t1", 0, node("nope", page.KindText)), "leaf kinds hold no children")
	assert.False(t, InsertAt(&root, "ghost", 0, node("nope", page.KindText)))
	assert.False(t, Contains(root, "nope"))
}

func TestRemoveByID(t *testing.T) {
	root := fixture()
	removed := RemoveByID(&root, "h1")
	require.NotNil(t, removed)
	assert.Equal(t, "h1", removed.ID)
	assert.Equal(t, []string{"s2"}, columnChildIDs(t, root, "c1", 0))

	assert.Nil(t, RemoveByID(&root, "h1"))

	removed = RemoveByID(&root, "s1")
	require.NotNil(t, removed)
	assert.Len(t, root, 1)
	assert.Equal(t, "t1", removed.Children[0].ID)
}

func TestMovePreservesCount(t *testing.T) {
	cases := []struct {
		name       string
		dragged    string
		target     string
		index      int
		wantOK     bool
		wantParent string
		wantIndex  int
	}{
		{name: "canvas to column", dragged: "s1", target: "colB", index: 0, wantOK: true, wantParent: "colB", wantIndex: 0},
		{name: "column to canvas", dragged: "t2", target: page.CanvasKey, index: 0, wantOK: true, wantParent: page.CanvasKey, wantIndex: 0},
		{name: "within same column", dragged: "h1", target: "colA", index: 1, wantOK: true, wantParent: "colA", wantIndex: 1},
		{name: "into section", dragged: "h1", target: "s1", index: 5, wantOK: true, wantParent: "s1", wantIndex: 1},
		{name: "into own subtree", dragged: "c1", target: "s2", index: 0, wantOK: false, wantParent: page.CanvasKey, wantIndex: 1},
		{name: "into leaf", dragged: "s1", target: "t2", index: 0, wantOK: false, wantParent: page.CanvasKey, wantIndex: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := fixture()
			before := page.CountNodes(root)

			ok := Move(&root, tc.dragged, tc.target, tc.index)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, before, page.CountNodes(root))

			parent, idx, found := Locate(root, tc.dragged)
			require.True(t, found)
			assert.Equal(t, tc.wantParent, parent)
			assert.Equal(t, tc.wantIndex, idx)
		})
	}
}

func TestMoveUnknownNode(t *testing.T) {
	root := fixture()
	assert.False(t, Move(&root, "ghost", page.CanvasKey, 0))
	assert.Equal(t, 6, page.CountNodes(root))
}

func TestDuplicateInsideColumn(t *testing.T) {
	root := fixture()
	form := node("f1", page.KindForm)
	form.Content = `{"fields":[{"id":"fld-1","name":"email","type":"email"}]}`
	require.True(t, InsertAt(&root, "s2", 1, form))

	original := Find(root, "s2").CollectIDs()
	newID, ok := Duplicate(&root, "s2")
	require.True(t, ok)
	assert.NotEqual(t, "s2", newID)

	ids := columnChildIDs(t, root, "c1", 0)
	assert.Equal(t, []string{"h1", "s2", newID}, ids)

	copied := Find(root, newID).CollectIDs()
	require.Len(t, copied, len(original))
	for _, id := range copied {
		assert.NotContains(t, original, id)
	}
	assert.Contains(t, original, "fld-1")
}

func TestDuplicateColumnsRefreshesColumnIDs(t *testing.T) {
	root := fixture()
	newID, ok := Duplicate(&root, "c1")
	require.True(t, ok)
	require.Len(t, root, 3)

	cc := page.ParseColumns(Find(root, newID).Content)
	require.Len(t, cc.Columns, 2)
	assert.NotEqual(t, "colA", cc.Columns[0].ID)
	assert.NotEqual(t, "colB", cc.Columns[1].ID)
	assert.NotEqual(t, "h1", cc.Columns[0].Children[0].ID)
}

func TestWrapInColumns(t *testing.T) {
	root := []*page.Node{node("hero", page.KindHero)}
	wrapper := columns("wrap", page.Column{ID: "w0"}, page.Column{ID: "w1"})

	require.True(t, WrapInColumns(&root, "hero", wrapper))
	require.Len(t, root, 1)
	assert.Equal(t, page.KindColumns, root[0].Kind)

	cc := page.ParseColumns(root[0].Content)
	require.Len(t, cc.Columns, 2)
	require.Len(t, cc.Columns[0].Children, 1)
	assert.Equal(t, "hero", cc.Columns[0].Children[0].ID)
	assert.Empty(t, cc.Columns[1].Children)
}

func TestWrapSoleChildOfColumnNests(t *testing.T) {
	root := []*page.Node{columns("outer", page.Column{ID: "o0", Children: []*page.Node{node("only", page.KindText)}}, page.Column{ID: "o1"})}

	require.True(t, WrapInColumns(&root, "only", node("inner", page.KindColumns)))
	assert.Equal(t, []string{"inner"}, columnChildIDs(t, root, "outer", 0))
	assert.Equal(t, []string{"only"}, columnChildIDs(t, root, "inner", 0))
	assert.Equal(t, 3, page.CountNodes(root))
}

func TestWrapRejectsNonColumnsWrapper(t *testing.T) {
	root := fixture()
	assert.False(t, WrapInColumns(&root, "t1", node("x", page.KindSection)))
	assert.False(t, WrapInColumns(&root, "ghost", columns("w")))
}

func TestEachVisitsColumnsInOrder(t *testing.T) {
	var ids, parents []string
	Each(fixture(), func(n *page.Node, loc Location) {
		ids = append(ids, n.ID)
		parents = append(parents, loc.ParentID())
	})
	assert.Equal(t, []string{"s1", "t1", "c1", "h1", "s2", "t2"}, ids)
	assert.Equal(t, []string{page.CanvasKey, "s1", page.CanvasKey, "colA", "colA", "s2"}, parents)
}
