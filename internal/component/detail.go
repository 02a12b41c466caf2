package component

import "encoding/json"

// Detail 组件：Markdown 内容加可选的元数据侧栏。
// Detail renders markdown content with an optional metadata sidebar.
type Detail struct {
	Markdown  string       `json:"markdown,omitempty"`
	IsLoading bool         `json:"isLoading"`
	Actions   *ActionPanel `json:"actions,omitempty"`
	Metadata  *Metadata    `json:"metadata,omitempty"`
}

// Metadata is the sidebar of a Detail view.
type Metadata struct {
	Children []MetadataItem `json:"children"`
}

// MetadataItem is one labeled entry in the sidebar.
type MetadataItem struct {
	Title string        `json:"title"`
	Text  string        `json:"text,omitempty"`
	Icon  *Icon         `json:"icon,omitempty"`
	Link  *MetadataLink `json:"link,omitempty"`
}

// MetadataLink is a clickable link inside a metadata item.
type MetadataLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (d Detail) MarshalJSON() ([]byte, error) {
	type alias Detail
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"Detail", alias(d)})
}
