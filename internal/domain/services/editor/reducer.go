// Package editor implements the edit reducer: a pure function from editor state
// and an intent to the next editor state, recording document snapshots in a
// linear history ledger.
package editor

import (
	"reflect"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/history"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/factory"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/tree"
)

// State is the editor's full state. Values are never mutated by Reduce; each
// call returns a fresh State sharing nothing writable with its input.
type State struct {
	Document   []*page.Node    `json:"document"`
	SelectedID string          `json:"selectedId,omitempty"`
	PageStyles page.PageStyles `json:"pageStyles"`
	History    history.Ledger  `json:"-"`
	// Dirty is set when document or page styles changed since the last save.
	Dirty bool `json:"dirty"`
	// Revision increases with every observable state change.
	Revision uint64 `json:"revision"`
}

// NewState returns an empty editor state whose ledger keeps at most historyLimit
// entries (zero for unbounded).
func NewState(historyLimit int) State {
	return State{Document: []*page.Node{}, History: history.New(historyLimit)}
}

// Now stamps history entries.
var Now = func() time.Time { return time.Now().UTC() }

// Reduce applies one intent. Intents addressing ids that are not in the tree
// leave the state unchanged.
func Reduce(s State, in Intent) State {
	switch in := in.(type) {
	case SetDocument:
		next := s.edit(page.Canonicalize(page.CloneNodes(in.Nodes)))
		next.SelectedID = ""
		return next.record(s)

	case SetInitialState:
		next := s
		next.Document = page.Canonicalize(page.CloneNodes(in.Nodes))
		if next.Document == nil {
			next.Document = []*page.Node{}
		}
		next.PageStyles = in.PageStyles.Clone()
		next.SelectedID = ""
		next.Dirty = false
		next.Revision++
		return next

	case Insert:
		parentID := slotOrCanvas(in.ParentID)
		nodes := page.Canonicalize(page.CloneNodes(in.Nodes))
		if len(nodes) == 0 || !canPlace(nodes, parentID) {
			return s
		}
		doc := page.CloneNodes(s.Document)
		freshenCollisions(doc, nodes)
		if !tree.InsertAt(&doc, parentID, in.Index, nodes...) {
			return s
		}
		next := s.edit(doc)
		next.SelectedID = nodes[len(nodes)-1].ID
		return next.record(s)

	case Move:
		parentID := slotOrCanvas(in.TargetParentID)
		dragged := tree.Find(s.Document, in.DraggedID)
		if dragged == nil || !canPlace([]*page.Node{dragged}, parentID) {
			return s
		}
		doc := page.CloneNodes(s.Document)
		if !tree.Move(&doc, in.DraggedID, parentID, in.TargetIndex) {
			return s
		}
		return s.edit(doc).record(s)

	case Restyle:
		doc := page.CloneNodes(s.Document)
		ok := tree.Update(&doc, in.NodeID, func(n *page.Node) {
			n.Styles = n.Styles.Ensure()
			bucket := n.Styles.Bucket(page.ParseBreakpoint(string(in.Breakpoint)), stateOrDefault(in.State))
			bucket.Merge(in.Styles)
		})
		if !ok {
			return s
		}
		return s.edit(doc).record(s)

	case SetContent:
		doc := page.CloneNodes(s.Document)
		if !tree.Update(&doc, in.NodeID, func(n *page.Node) { n.Content = in.Content }) {
			return s
		}
		return s.edit(doc).record(s)

	case SetAttribute:
		if in.Attr != AttrHTMLID && in.Attr != AttrClassName {
			return s
		}
		doc := page.CloneNodes(s.Document)
		ok := tree.Update(&doc, in.NodeID, func(n *page.Node) {
			if in.Attr == AttrHTMLID {
				n.HTMLID = in.Value
			} else {
				n.ClassName = in.Value
			}
		})
		if !ok {
			return s
		}
		return s.edit(doc).record(s)

	case Delete:
		doc := page.CloneNodes(s.Document)
		if tree.RemoveByID(&doc, in.NodeID) == nil {
			return s
		}
		next := s.edit(doc)
		if next.SelectedID != "" && !tree.Contains(doc, next.SelectedID) {
			next.SelectedID = ""
		}
		return next.record(s)

	case Duplicate:
		doc := page.CloneNodes(s.Document)
		newID, ok := tree.Duplicate(&doc, in.NodeID)
		if !ok {
			return s
		}
		next := s.edit(doc)
		next.SelectedID = newID
		return next.record(s)

	case WrapInColumns:
		target := tree.Find(s.Document, in.NodeID)
		if target == nil || target.Kind.IsCanvasOnly() {
			return s
		}
		doc := page.CloneNodes(s.Document)
		wrapper := factory.NewColumns(2)
		if !tree.WrapInColumns(&doc, in.NodeID, wrapper) {
			return s
		}
		next := s.edit(doc)
		next.SelectedID = wrapper.ID
		return next.record(s)

	case RevertTo:
		next := s.edit(page.Canonicalize(page.CloneNodes(in.Nodes)))
		next.PageStyles = in.PageStyles.Clone()
		next.SelectedID = ""
		return next.record(s)

	case SetPageStyles:
		merged := s.PageStyles.Merge(in.Patch)
		if reflect.DeepEqual(merged, s.PageStyles) {
			return s
		}
		next := s
		next.PageStyles = merged
		next.Dirty = true
		next.Revision++
		return next

	case SelectNode:
		if in.NodeID == s.SelectedID {
			return s
		}
		next := s
		next.SelectedID = in.NodeID
		next.Revision++
		return next

	case Snapshot:
		ledger, added := s.History.Append(s.Document, Now())
		if !added {
			return s
		}
		next := s
		next.History = ledger
		next.Revision++
		return next

	case Undo:
		ledger, nodes, ok := s.History.Undo()
		if !ok {
			return s
		}
		return s.travel(ledger, nodes)

	case Redo:
		ledger, nodes, ok := s.History.Redo()
		if !ok {
			return s
		}
		return s.travel(ledger, nodes)

	case MarkSaved:
		if !s.Dirty || in.Revision != s.Revision {
			return s
		}
		next := s
		next.Dirty = false
		return next
	}
	return s
}

// edit returns a copy of s carrying doc as its document.
func (s State) edit(doc []*page.Node) State {
	if doc == nil {
		doc = []*page.Node{}
	}
	next := s
	next.Document = doc
	return next
}

// record finishes a history-tracked edit: a changed document is appended to the
// ledger and the revision bumps. When document, page styles and selection all
// match prev, prev is returned untouched.
func (s State) record(prev State) State {
	docChanged := history.DigestOf(s.Document) != history.DigestOf(prev.Document)
	stylesChanged := !reflect.DeepEqual(s.PageStyles, prev.PageStyles)
	if !docChanged && !stylesChanged && s.SelectedID == prev.SelectedID {
		return prev
	}
	if docChanged {
		s.History, _ = s.History.Append(s.Document, Now())
	}
	if docChanged || stylesChanged {
		s.Dirty = true
	}
	s.Revision = prev.Revision + 1
	return s
}

func (s State) travel(ledger history.Ledger, nodes []*page.Node) State {
	next := s.edit(nodes)
	next.History = ledger
	next.SelectedID = ""
	next.Dirty = true
	next.Revision++
	return next
}

// freshenCollisions gives new ids to every inserted subtree that reuses an id
// already in doc or earlier in the batch.
func freshenCollisions(doc, nodes []*page.Node) {
	taken := make(map[string]bool)
	for _, n := range doc {
		for _, id := range n.CollectIDs() {
			taken[id] = true
		}
	}
	for _, n := range nodes {
		ids := n.CollectIDs()
		for _, id := range ids {
			if taken[id] {
				n.RefreshIDs()
				ids = n.CollectIDs()
				break
			}
		}
		for _, id := range ids {
			taken[id] = true
		}
	}
}

// canPlace reports whether every node may live in the addressed slot.
func canPlace(nodes []*page.Node, parentID string) bool {
	if parentID == page.CanvasKey {
		return true
	}
	for _, n := range nodes {
		if n.Kind.IsCanvasOnly() {
			return false
		}
	}
	return true
}

func slotOrCanvas(id string) string {
	if id == "" {
		return page.CanvasKey
	}
	return id
}

func stateOrDefault(st page.StyleState) page.StyleState {
	if st == page.StateHover {
		return page.StateHover
	}
	return page.StateDefault
}
