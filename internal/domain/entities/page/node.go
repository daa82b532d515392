// Package page provides the element tree, document and content schema types of the page editor.
package page

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Node is one element of the page tree.
type Node struct {
	ID        string  `json:"id"`
	Kind      Kind    `json:"kind"`
	Content   string  `json:"content,omitempty"`
	Styles    Styles  `json:"styles"`
	Children  []*Node `json:"children,omitempty"`
	Name      string  `json:"name,omitempty"`
	HTMLID    string  `json:"htmlId,omitempty"`
	ClassName string  `json:"className,omitempty"`
}

// UnmarshalJSON decodes a node and guarantees its style buckets exist.
func (n *Node) UnmarshalJSON(data []byte) error {
	type nodeAlias Node
	var a nodeAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*n = Node(a)
	n.Styles = n.Styles.Ensure()
	n.Children = compact(n.Children)
	return nil
}

// compact drops nil entries in place. A nil list stays nil.
func compact(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Canonicalize drops nil nodes at every depth and re-encodes each columns payload
// in canonical form, so writing a column slot back reproduces it byte for byte
// when nothing inside changed. It mutates the nodes; pass a clone.
func Canonicalize(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		n.Styles = n.Styles.Ensure()
		if n.Children != nil {
			n.Children = Canonicalize(n.Children)
		}
		if n.Kind == KindColumns {
			cc := ParseColumns(n.Content)
			for i := range cc.Columns {
				cc.Columns[i].Children = Canonicalize(cc.Columns[i].Children)
			}
			n.Content = EncodeContent(cc)
		}
		out = append(out, n)
	}
	return out
}

// HasNil reports whether any entry of nodes is nil.
func HasNil(nodes []*Node) bool {
	for _, n := range nodes {
		if n == nil {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Styles = n.Styles.Clone()
	cp.Children = CloneNodes(n.Children)
	return &cp
}

// CloneNodes deep copies a node list. A nil list stays nil.
func CloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Clone())
	}
	return out
}

// IDGenerator produces a fresh identifier for the given prefix.
type IDGenerator func(prefix string) string

// NewLocalID returns "{prefix}-{unixMillis}-{random}" with the random part taken
// from a monotonic ULID, so ids minted in the same millisecond still differ.
func NewLocalID(prefix string) string {
	s := strings.ToLower(ulid.Make().String())
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), s[len(s)-9:])
}

// NewNodeID returns a fresh node id for kind.
func NewNodeID(kind Kind) string {
	return NewLocalID(string(kind))
}

// RefreshIDs assigns fresh ids to the node, every descendant and every id nested in
// the content payloads of the subtree.
func (n *Node) RefreshIDs() {
	n.refreshIDs(NewLocalID)
}

func (n *Node) refreshIDs(gen IDGenerator) {
	if n == nil {
		return
	}
	n.ID = gen(string(n.Kind))
	for _, c := range n.Children {
		c.refreshIDs(gen)
	}
	if n.Content == "" {
		return
	}
	if carrier, ok := DecodeContent(n.Kind, n.Content).(IDCarrier); ok {
		carrier.RefreshIDs(gen)
		n.Content = EncodeContent(carrier)
	}
}

// CollectIDs returns the node id, its descendants' ids and all content-nested ids.
func (n *Node) CollectIDs() []string {
	if n == nil {
		return nil
	}
	ids := []string{n.ID}
	for _, c := range n.Children {
		ids = append(ids, c.CollectIDs()...)
	}
	if carrier, ok := DecodeContent(n.Kind, n.Content).(IDCarrier); ok {
		ids = append(ids, carrier.ContentIDs()...)
	}
	return ids
}

// CountNodes counts nodes in the list including children and column contents.
func CountNodes(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		total++
		total += CountNodes(n.Children)
		if n.Kind == KindColumns {
			for _, col := range ParseColumns(n.Content).Columns {
				total += CountNodes(col.Children)
			}
		}
	}
	return total
}
