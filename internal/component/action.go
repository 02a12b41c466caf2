package component

// ActionStyle is the visual style of an action.
type ActionStyle string

const (
	ActionStyleDefault     ActionStyle = "default"
	ActionStyleDestructive ActionStyle = "destructive"
)

// ActionPanel groups the actions available for an item or view.
type ActionPanel struct {
	Title    string   `json:"title,omitempty"`
	Children []Action `json:"children"`
}

// Action 是用户可触发的一条命令。OnAction 是只有扩展自己能解释的回调令牌，
// 宿主从不解析它的结构。
// Action is a user-triggerable command. OnAction is an opaque callback token
// meaningful only to the extension; the host never parses its structure.
type Action struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Icon     *Icon       `json:"icon,omitempty"`
	Shortcut *Shortcut   `json:"shortcut,omitempty"`
	Style    ActionStyle `json:"style,omitempty"`
	OnAction string      `json:"onAction,omitempty"`
}

// Modifier is a keyboard modifier key.
type Modifier string

const (
	ModCmd   Modifier = "cmd"
	ModCtrl  Modifier = "ctrl"
	ModAlt   Modifier = "alt"
	ModShift Modifier = "shift"
)

// Shortcut is a keyboard shortcut bound to an action.
type Shortcut struct {
	Modifiers []Modifier `json:"modifiers"`
	Key       string     `json:"key"`
}
