package factory

import (
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// CreateNode builds the default subtree for kind: catalog styles in every bucket,
// default content with fresh nested ids, and the composite's child skeleton.
// Unknown kinds yield nil.
func CreateNode(kind page.Kind) []*page.Node {
	n := build(kind, nil)
	if n == nil {
		return nil
	}
	return []*page.Node{n}
}

// NewColumns returns an empty columns node with count columns (minimum one).
func NewColumns(count int) *page.Node {
	if count < 1 {
		count = 1
	}
	n := build(page.KindColumns, nil)
	cc := &page.ColumnsContent{}
	for i := 0; i < count; i++ {
		cc.Columns = append(cc.Columns, page.Column{ID: page.NewLocalID("col")})
	}
	n.Content = page.EncodeContent(cc)
	return n
}

func build(kind page.Kind, content any) *page.Node {
	e, ok := catalog[kind]
	if !ok {
		return nil
	}

	n := &page.Node{
		ID:     page.NewNodeID(kind),
		Kind:   kind,
		Name:   e.Label,
		Styles: page.NewStyles(),
	}
	n.Styles.Bucket(page.Desktop, page.StateDefault).Merge(e.Styles)
	n.Styles.Bucket(page.Tablet, page.StateDefault).Merge(e.Tablet)
	n.Styles.Bucket(page.Mobile, page.StateDefault).Merge(e.Mobile)

	if content == nil {
		content = e.Content
	}
	n.Content = normalizeContent(kind, encodeLiteral(content))

	for _, entry := range e.Children {
		if child := build(entry.Kind, entry.Content); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// normalizeContent round-trips structured payloads through their typed schema and
// gives every nested item a fresh id.
func normalizeContent(kind page.Kind, raw string) string {
	if raw == "" || !kind.IsStructured() {
		return raw
	}
	v := page.DecodeContent(kind, raw)
	if carrier, ok := v.(page.IDCarrier); ok {
		carrier.RefreshIDs(page.NewLocalID)
	}
	return page.EncodeContent(v)
}
