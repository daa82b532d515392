package editor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/entities/page"
	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/factory"
)

// ErrUnknownIntent is returned by DecodeIntent for unrecognised command types.
var ErrUnknownIntent = errors.New("unknown intent")

// Intent is a request to change editor state. The concrete types below are the
// complete set understood by Reduce.
type Intent interface {
	Name() string
}

type SetDocument struct {
	Nodes []*page.Node `json:"nodes"`
}

// SetInitialState seeds a freshly loaded document without touching history.
type SetInitialState struct {
	Nodes      []*page.Node    `json:"nodes"`
	PageStyles page.PageStyles `json:"pageStyles"`
}

type Insert struct {
	Nodes    []*page.Node `json:"nodes"`
	ParentID string       `json:"parentId"`
	Index    int          `json:"index"`
}

type Move struct {
	DraggedID      string `json:"draggedId"`
	TargetParentID string `json:"targetParentId"`
	TargetIndex    int    `json:"targetIndex"`
}

// Restyle shallow-merges Styles into exactly one breakpoint/state bucket.
type Restyle struct {
	NodeID     string          `json:"nodeId"`
	Styles     page.StyleMap   `json:"styles"`
	Breakpoint page.Breakpoint `json:"breakpoint"`
	State      page.StyleState `json:"state"`
}

type SetContent struct {
	NodeID  string `json:"nodeId"`
	Content string `json:"content"`
}

// Attribute names accepted by SetAttribute.
const (
	AttrHTMLID    = "htmlId"
	AttrClassName = "className"
)

type SetAttribute struct {
	NodeID string `json:"nodeId"`
	Attr   string `json:"attr"`
	Value  string `json:"value"`
}

type Delete struct {
	NodeID string `json:"nodeId"`
}

type Duplicate struct {
	NodeID string `json:"nodeId"`
}

type WrapInColumns struct {
	NodeID string `json:"nodeId"`
}

// RevertTo restores a previously saved version.
type RevertTo struct {
	Nodes      []*page.Node    `json:"nodes"`
	PageStyles page.PageStyles `json:"pageStyles"`
}

type SetPageStyles struct {
	Patch page.PageStylesPatch `json:"patch"`
}

// SelectNode sets the selection; an empty id clears it.
type SelectNode struct {
	NodeID string `json:"nodeId"`
}

type Snapshot struct{}

type Undo struct{}

type Redo struct{}

// MarkSaved clears the dirty flag if nothing changed since Revision was persisted.
type MarkSaved struct {
	Revision uint64 `json:"revision"`
}

func (SetDocument) Name() string     { return "setDocument" }
func (SetInitialState) Name() string { return "setInitialState" }
func (Insert) Name() string          { return "insert" }
func (Move) Name() string            { return "move" }
func (Restyle) Name() string         { return "restyle" }
func (SetContent) Name() string      { return "setContent" }
func (SetAttribute) Name() string    { return "setAttribute" }
func (Delete) Name() string          { return "delete" }
func (Duplicate) Name() string       { return "duplicate" }
func (WrapInColumns) Name() string   { return "wrapInColumns" }
func (RevertTo) Name() string        { return "revertTo" }
func (SetPageStyles) Name() string   { return "setPageStyles" }
func (SelectNode) Name() string      { return "selectNode" }
func (Snapshot) Name() string        { return "snapshot" }
func (Undo) Name() string            { return "undo" }
func (Redo) Name() string            { return "redo" }
func (MarkSaved) Name() string       { return "markSaved" }

// Command is the wire envelope for an intent.
type Command struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// insertPayload also accepts a palette kind in place of explicit nodes.
type insertPayload struct {
	Insert
	Kind page.Kind `json:"kind,omitempty"`
}

// ErrNullNode is returned by DecodeIntent when a node list holds a null entry.
var ErrNullNode = errors.New("node list contains null")

// DecodeIntent turns a wire command into an intent.
func DecodeIntent(cmd Command) (Intent, error) {
	switch cmd.Type {
	case "setDocument":
		p, err := decode[SetDocument](cmd)
		if err = nodesErr(cmd, p.Nodes, err); err != nil {
			return nil, err
		}
		return p, nil
	case "setInitialState":
		p, err := decode[SetInitialState](cmd)
		if err = nodesErr(cmd, p.Nodes, err); err != nil {
			return nil, err
		}
		return p, nil
	case "insert":
		p, err := decode[insertPayload](cmd)
		if err = nodesErr(cmd, p.Nodes, err); err != nil {
			return nil, err
		}
		if p.Kind != "" {
			nodes := factory.CreateNode(p.Kind)
			if nodes == nil {
				return nil, fmt.Errorf("insert: unknown element kind %q", p.Kind)
			}
			p.Nodes = nodes
		}
		if p.ParentID == "" {
			p.ParentID = page.CanvasKey
		}
		return p.Insert, nil
	case "move":
		return decode[Move](cmd)
	case "restyle":
		p, err := decode[Restyle](cmd)
		if err != nil {
			return nil, err
		}
		p.Breakpoint = page.ParseBreakpoint(string(p.Breakpoint))
		if p.State != page.StateHover {
			p.State = page.StateDefault
		}
		return p, nil
	case "setContent":
		return decode[SetContent](cmd)
	case "setAttribute":
		return decode[SetAttribute](cmd)
	case "delete":
		return decode[Delete](cmd)
	case "duplicate":
		return decode[Duplicate](cmd)
	case "wrapInColumns":
		return decode[WrapInColumns](cmd)
	case "revertTo":
		p, err := decode[RevertTo](cmd)
		if err = nodesErr(cmd, p.Nodes, err); err != nil {
			return nil, err
		}
		return p, nil
	case "setPageStyles":
		return decode[SetPageStyles](cmd)
	case "selectNode":
		return decode[SelectNode](cmd)
	case "snapshot":
		return Snapshot{}, nil
	case "undo":
		return Undo{}, nil
	case "redo":
		return Redo{}, nil
	case "markSaved":
		return decode[MarkSaved](cmd)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, cmd.Type)
	}
}

func nodesErr(cmd Command, nodes []*page.Node, err error) error {
	if err != nil {
		return err
	}
	if page.HasNil(nodes) {
		return fmt.Errorf("%s payload: %w", cmd.Type, ErrNullNode)
	}
	return nil
}

func decode[T any](cmd Command) (T, error) {
	var v T
	if len(cmd.Payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(cmd.Payload, &v); err != nil {
		return v, fmt.Errorf("%s payload: %w", cmd.Type, err)
	}
	return v, nil
}
