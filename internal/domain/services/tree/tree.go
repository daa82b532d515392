// Package tree locates and mutates nodes at any depth of a page tree, walking
// ordinary children and columns payloads through the same slot abstraction.
package tree

import (
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
)

// Location describes where a visited node sits.
type Location struct {
	Parent *page.Node // nil on the canvas
	Slot   page.Slot
	Index  int
}

// ParentID returns the id that addresses the containing slot: the canvas key, the
// parent node id, or the column id.
func (l Location) ParentID() string {
	switch {
	case l.Slot.IsColumn():
		return l.Slot.ID
	case l.Parent == nil:
		return page.CanvasKey
	default:
		return l.Parent.ID
	}
}

// Visitor is invoked for every node in pre-order. Returning true stops the walk and
// marks it successful; mutations must happen inside the visitor.
type Visitor func(node *page.Node, loc Location) bool

// Walk visits every node under root depth-first. Children are searched before
// columns. When a match is found inside a columns payload the payload is re-encoded
// into its owner before the walk unwinds.
func Walk(root *[]*page.Node, visit Visitor) bool {
	canvas := page.Slot{ID: page.CanvasKey, Column: -1, Nodes: root}
	return walkSlot(nil, canvas, visit, true)
}

// inspect walks like Walk but never writes payloads back, so it is safe on trees
// shared with concurrent readers. Visitors passed here must not mutate.
func inspect(root []*page.Node, visit Visitor) bool {
	canvas := page.Slot{ID: page.CanvasKey, Column: -1, Nodes: &root}
	return walkSlot(nil, canvas, visit, false)
}

func walkSlot(parent *page.Node, slot page.Slot, visit Visitor, write bool) bool {
	for i := 0; i < len(*slot.Nodes); i++ {
		n := (*slot.Nodes)[i]
		if n == nil {
			continue
		}
		if visit(n, Location{Parent: parent, Slot: slot, Index: i}) {
			return true
		}
		if walkSlots(n, visit, write) {
			return true
		}
	}
	return false
}

func walkSlots(n *page.Node, visit Visitor, write bool) (matched bool) {
	slots, commit := page.OpenSlots(n)
	defer func() {
		if matched && write {
			commit()
		}
	}()
	for _, s := range slots {
		if walkSlot(n, s, visit, write) {
			return true
		}
	}
	return false
}

// Each calls fn for every node in pre-order, columns included. fn must not mutate.
func Each(root []*page.Node, fn func(n *page.Node, loc Location)) {
	inspect(root, func(n *page.Node, loc Location) bool {
		fn(n, loc)
		return false
	})
}

// Find returns a detached copy of the node with id, or nil. Edits to the copy do not
// reach the tree; use Update for that.
func Find(root []*page.Node, id string) *page.Node {
	var found *page.Node
	inspect(root, func(n *page.Node, _ Location) bool {
		if n.ID != id {
			return false
		}
		found = n.Clone()
		return true
	})
	return found
}

// Contains reports whether a node with id exists.
func Contains(root []*page.Node, id string) bool {
	return Find(root, id) != nil
}

// Locate returns the parent id and index of the node with id.
func Locate(root []*page.Node, id string) (parentID string, index int, ok bool) {
	inspect(root, func(n *page.Node, loc Location) bool {
		if n.ID != id {
			return false
		}
		parentID, index, ok = loc.ParentID(), loc.Index, true
		return true
	})
	return parentID, index, ok
}

// Update applies fn to the node with id in place.
func Update(root *[]*page.Node, id string, fn func(*page.Node)) bool {
	return Walk(root, func(n *page.Node, _ Location) bool {
		if n.ID != id {
			return false
		}
		fn(n)
		return true
	})
}

// HasSlot reports whether parentID addresses the canvas, a container node or a column.
func HasSlot(root []*page.Node, parentID string) bool {
	if parentID == page.CanvasKey {
		return true
	}
	found := false
	inspect(root, func(n *page.Node, _ Location) bool {
		if n.ID == parentID {
			found = n.Kind.IsContainer()
			return true
		}
		if n.Kind != page.KindColumns {
			return false
		}
		for _, col := range page.ParseColumns(n.Content).Columns {
			if col.ID == parentID {
				found = true
				return true
			}
		}
		return false
	})
	return found
}

// InsertAt splices nodes into the slot addressed by parentID at index, clamped to the
// slot bounds. The parent must be the canvas, a container node or a column.
func InsertAt(root *[]*page.Node, parentID string, index int, nodes ...*page.Node) bool {
	if len(nodes) == 0 {
		return false
	}
	if parentID == page.CanvasKey {
		*root = splice(*root, index, nodes)
		return true
	}
	return Walk(root, func(n *page.Node, _ Location) bool {
		if n.ID != parentID && n.Kind != page.KindColumns {
			return false
		}
		if n.ID == parentID && !n.Kind.IsContainer() {
			return false
		}
		slots, commit := page.OpenSlots(n)
		slot, ok := page.TargetSlot(slots, n, parentID)
		if !ok {
			return false
		}
		*slot.Nodes = splice(*slot.Nodes, index, nodes)
		commit()
		return true
	})
}

// RemoveByID detaches the node with id and returns it, or nil.
func RemoveByID(root *[]*page.Node, id string) *page.Node {
	var removed *page.Node
	Walk(root, func(n *page.Node, loc Location) bool {
		if n.ID != id {
			return false
		}
		removed = n
		list := *loc.Slot.Nodes
		*loc.Slot.Nodes = append(list[:loc.Index:loc.Index], list[loc.Index+1:]...)
		return true
	})
	return removed
}

// Move detaches draggedID and reinserts it under targetParentID at targetIndex, where
// the index is relative to the list after removal. Moves into the dragged subtree are
// refused, and a failed insertion restores the node where it was.
func Move(root *[]*page.Node, draggedID, targetParentID string, targetIndex int) bool {
	fromParent, fromIndex, ok := Locate(*root, draggedID)
	if !ok {
		return false
	}
	if targetParentID != page.CanvasKey {
		dragged := Find(*root, draggedID)
		for _, id := range dragged.CollectIDs() {
			if id == targetParentID {
				return false
			}
		}
		if !HasSlot(*root, targetParentID) {
			return false
		}
	}

	node := RemoveByID(root, draggedID)
	if node == nil {
		return false
	}
	if InsertAt(root, targetParentID, targetIndex, node) {
		return true
	}
	InsertAt(root, fromParent, fromIndex, node)
	return false
}

// Duplicate inserts a deep copy of the node with id right after it, with fresh ids
// throughout the copy. It returns the id of the copy.
func Duplicate(root *[]*page.Node, id string) (string, bool) {
	var newID string
	ok := Walk(root, func(n *page.Node, loc Location) bool {
		if n.ID != id {
			return false
		}
		cp := n.Clone()
		cp.RefreshIDs()
		newID = cp.ID
		*loc.Slot.Nodes = splice(*loc.Slot.Nodes, loc.Index+1, []*page.Node{cp})
		return true
	})
	return newID, ok
}

// WrapInColumns replaces the node with id by wrapper, a fresh columns node, placing
// the original in the first column and leaving the second empty.
func WrapInColumns(root *[]*page.Node, id string, wrapper *page.Node) bool {
	if wrapper == nil || wrapper.Kind != page.KindColumns {
		return false
	}
	return Walk(root, func(n *page.Node, loc Location) bool {
		if n.ID != id {
			return false
		}
		cc := page.ParseColumns(wrapper.Content)
		for len(cc.Columns) < 2 {
			cc.Columns = append(cc.Columns, page.Column{ID: page.NewLocalID("col")})
		}
		cc.Columns[0].Children = []*page.Node{n}
		cc.Columns[1].Children = []*page.Node{}
		wrapper.Content = page.EncodeContent(cc)
		(*loc.Slot.Nodes)[loc.Index] = wrapper
		return true
	})
}

func splice(list []*page.Node, index int, nodes []*page.Node) []*page.Node {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	out := make([]*page.Node, 0, len(list)+len(nodes))
	out = append(out, list[:index]...)
	out = append(out, nodes...)
	return append(out, list[index:]...)
}
