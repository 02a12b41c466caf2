package component

import (
	"encoding/json"
	"fmt"
)

// Filtering controls who filters the list as the user types.
type Filtering string

const (
	// FilteringDefault: the host filters on title/keywords.
	FilteringDefault Filtering = "default"
	// FilteringNone: no filtering, the extension shows what it shows.
	FilteringNone Filtering = "none"
	// FilteringCustom: the extension filters via the onSearchChange callback.
	FilteringCustom Filtering = "custom"
)

// List 组件：可搜索的条目列表，条目可按 Section 分组。
// List is a searchable list of items, optionally grouped into sections.
type List struct {
	IsLoading            bool        `json:"isLoading"`
	SearchBarPlaceholder string      `json:"searchBarPlaceholder,omitempty"`
	Filtering            Filtering   `json:"filtering,omitempty"`
	OnSearchChange       string      `json:"onSearchChange,omitempty"`
	OnSelectionChange    string      `json:"onSelectionChange,omitempty"`
	Children             []ListChild `json:"children"`
}

// ListChild is either a ListItem or a ListSection.
type ListChild interface {
	listChildType() string
}

func (ListItem) listChildType() string    { return "List.Item" }
func (ListSection) listChildType() string { return "List.Section" }

// ListItem is a single row. ID must be unique within the rendered tree; the
// host uses it as the re-render diff key.
type ListItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle,omitempty"`
	Icon        *Icon        `json:"icon,omitempty"`
	Accessories []Accessory  `json:"accessories,omitempty"`
	Keywords    []string     `json:"keywords,omitempty"`
	Actions     *ActionPanel `json:"actions,omitempty"`
}

// ListSection groups items under an optional heading.
type ListSection struct {
	Title    string     `json:"title,omitempty"`
	Subtitle string     `json:"subtitle,omitempty"`
	Children []ListItem `json:"children"`
}

func (l List) MarshalJSON() ([]byte, error) {
	type alias List
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"List", alias(l)})
}

func (i ListItem) MarshalJSON() ([]byte, error) {
	type alias ListItem
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"List.Item", alias(i)})
}

func (s ListSection) MarshalJSON() ([]byte, error) {
	type alias ListSection
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"List.Section", alias(s)})
}

func (l *List) UnmarshalJSON(data []byte) error {
	type alias List
	aux := struct {
		*alias
		Children []json.RawMessage `json:"children"`
	}{alias: (*alias)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.Children = nil
	for _, raw := range aux.Children {
		child, err := decodeListChild(raw)
		if err != nil {
			return err
		}
		l.Children = append(l.Children, child)
	}
	return nil
}

func decodeListChild(raw json.RawMessage) (ListChild, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "List.Item":
		var item ListItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		return item, nil
	case "List.Section":
		var section ListSection
		if err := json.Unmarshal(raw, &section); err != nil {
			return nil, err
		}
		return section, nil
	default:
		return nil, &ValidationError{Component: "List", Field: "type", Reason: fmt.Sprintf("unknown list child %q", probe.Type)}
	}
}
