package component

import (
	"encoding/json"
	"fmt"
)

// Component 是扩展每次 render 产出的 UI 树根节点。
// Component is the root of the UI tree an extension produces per render.
//
// The variant set is closed: List, Detail, Form. Adding a new root type is an
// additive protocol change; removing or renaming a field requires bumping
// ProtocolVersion.
type Component interface {
	componentType() string
	validate() error
}

// ProtocolVersion marks the component wire protocol revision.
const ProtocolVersion = 1

func (List) componentType() string   { return "List" }
func (Detail) componentType() string { return "Detail" }
func (Form) componentType() string   { return "Form" }

// Marshal validates the tree and serializes it to the wire format.
// Validation happens here, at serialization time, so building and mutating
// trees between renders stays cheap.
func Marshal(c Component) ([]byte, error) {
	if c == nil {
		return nil, &ValidationError{Component: "Component", Reason: "nil component tree"}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode component: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a wire tree back into a typed component.
// Unknown or missing discriminator tags are rejected, never coerced.
func Unmarshal(data []byte) (Component, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ValidationError{Component: "Component", Reason: err.Error()}
	}
	switch probe.Type {
	case "List":
		var l List
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, &ValidationError{Component: "List", Reason: err.Error()}
		}
		return l, nil
	case "Detail":
		var d Detail
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, &ValidationError{Component: "Detail", Reason: err.Error()}
		}
		return d, nil
	case "Form":
		var f Form
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, &ValidationError{Component: "Form", Reason: err.Error()}
		}
		return f, nil
	case "":
		return nil, &ValidationError{Component: "Component", Field: "type", Reason: "missing discriminator tag"}
	default:
		return nil, &ValidationError{Component: "Component", Field: "type", Reason: fmt.Sprintf("unknown component type %q", probe.Type)}
	}
}

// BoundAction is one actionable entry of a serialized tree, in document order.
// The index of a BoundAction in the collected slice is the execution index the
// host hands back on execute; it is stable only until the next render.
type BoundAction struct {
	ItemID   string
	ActionID string
	Title    string
	Token    string
	Style    ActionStyle
}

// CollectActions walks the tree and returns every action in the order it
// appears in the serialized output.
func CollectActions(c Component) []BoundAction {
	var out []BoundAction
	appendPanel := func(itemID string, panel *ActionPanel) {
		if panel == nil {
			return
		}
		for _, a := range panel.Children {
			out = append(out, BoundAction{
				ItemID:   itemID,
				ActionID: a.ID,
				Title:    a.Title,
				Token:    a.OnAction,
				Style:    a.Style,
			})
		}
	}
	switch v := deref(c).(type) {
	case List:
		for _, child := range v.Children {
			switch n := derefChild(child).(type) {
			case ListItem:
				appendPanel(n.ID, n.Actions)
			case ListSection:
				for _, item := range n.Children {
					appendPanel(item.ID, item.Actions)
				}
			}
		}
	case Detail:
		appendPanel("", v.Actions)
	case Form:
		// Form submission rides onSubmit, not an action panel.
	}
	return out
}

// deref lets callers hand in either value or pointer trees.
func deref(c Component) Component {
	switch v := c.(type) {
	case *List:
		return *v
	case *Detail:
		return *v
	case *Form:
		return *v
	default:
		return c
	}
}

func derefChild(c ListChild) ListChild {
	switch v := c.(type) {
	case *ListItem:
		return *v
	case *ListSection:
		return *v
	default:
		return c
	}
}
