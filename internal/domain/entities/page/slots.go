package page

// Slot is a named, ordered child list on a container node. The default slot is the
// node's own children list and carries the node id; a columns node adds one slot per
// column carrying the column id.
type Slot struct {
	ID     string
	Column int // -1 for the default slot
	Nodes  *[]*Node
}

// IsColumn reports whether the slot lives inside a columns payload.
func (s Slot) IsColumn() bool { return s.Column >= 0 }

// OpenSlots exposes every slot of n. Column slots point into a freshly decoded
// payload; commit writes that payload back into n.Content and must run after any
// edit through a column slot. For nodes without columns commit is a no-op.
func OpenSlots(n *Node) ([]Slot, func()) {
	slots := []Slot{{ID: n.ID, Column: -1, Nodes: &n.Children}}
	if n.Kind != KindColumns {
		return slots, func() {}
	}

	cc := ParseColumns(n.Content)
	for i := range cc.Columns {
		slots = append(slots, Slot{ID: cc.Columns[i].ID, Column: i, Nodes: &cc.Columns[i].Children})
	}
	return slots, func() {
		n.Content = EncodeContent(cc)
	}
}

// TargetSlot resolves which slot of n a parent id addresses. A columns node addressed
// by its own id receives children in its first column, since its default list is
// never rendered.
func TargetSlot(slots []Slot, n *Node, parentID string) (Slot, bool) {
	if n.ID == parentID {
		if n.Kind == KindColumns && len(slots) > 1 {
			return slots[1], true
		}
		return slots[0], true
	}
	for _, s := range slots[1:] {
		if s.ID == parentID {
			return s, true
		}
	}
	return Slot{}, false
}
