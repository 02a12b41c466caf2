package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"nova/internal/component"
	"nova/internal/theme"
)

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

// RenderWire 把序列化的组件树渲染成终端文本。selected 是高亮的可选中行
// 序号, width 控制 Detail 的 markdown 换行宽度。
// RenderWire renders a serialized component tree, the form the host hands
// out. selected is the highlighted selectable row, width wraps Detail
// markdown.
func RenderWire(data []byte, t theme.Theme, selected, width int) string {
	decoded, err := component.Unmarshal(data)
	if err != nil {
		return t.ErrorStyle.Render(err.Error())
	}
	switch v := decoded.(type) {
	case component.List:
		return renderList(v, t, selected)
	case component.Detail:
		return renderDetail(v, t, width)
	case component.Form:
		return renderForm(v, t, selected)
	default:
		return ""
	}
}

func renderList(l component.List, t theme.Theme, selected int) string {
	var b strings.Builder
	if l.IsLoading {
		b.WriteString(t.StatusStyle.Render("loading..."))
		b.WriteByte('\n')
	}
	row := 0
	writeItem := func(item component.ListItem) {
		line := item.Title
		if item.Subtitle != "" {
			line += "  " + t.SubtitleStyle.Render(item.Subtitle)
		}
		var accessories []string
		for _, acc := range item.Accessories {
			if acc.Text != "" {
				accessories = append(accessories, acc.Text)
			}
		}
		if len(accessories) > 0 {
			line += "  " + t.AccessoryStyle.Render(strings.Join(accessories, " "))
		}
		if row == selected {
			b.WriteString(t.SelectedStyle.Render("> " + line))
		} else {
			b.WriteString(t.ItemStyle.Render("  " + line))
		}
		b.WriteByte('\n')
		row++
	}
	for _, child := range l.Children {
		switch n := child.(type) {
		case component.ListItem:
			writeItem(n)
		case component.ListSection:
			if n.Title != "" {
				b.WriteString(t.SectionStyle.Render(n.Title))
				b.WriteByte('\n')
			}
			for _, item := range n.Children {
				writeItem(item)
			}
		}
	}
	if row == 0 {
		b.WriteString(t.SubtitleStyle.Render("  no results"))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderDetail(d component.Detail, t theme.Theme, width int) string {
	var b strings.Builder
	b.WriteString(RenderMarkdown(d.Markdown, width))
	if d.Metadata != nil && len(d.Metadata.Children) > 0 {
		b.WriteByte('\n')
		for _, item := range d.Metadata.Children {
			value := item.Text
			if item.Link != nil {
				value = fmt.Sprintf("%s <%s>", item.Link.Text, item.Link.URL)
			}
			b.WriteString(t.SubtitleStyle.Render(item.Title+": ") + value + "\n")
		}
	}
	return b.String()
}

func renderForm(f component.Form, t theme.Theme, selected int) string {
	var b strings.Builder
	for i, field := range f.Children {
		marker := "  "
		if i == selected {
			marker = t.SelectedStyle.Render("> ")
		}
		label := fieldLabel(field)
		b.WriteString(marker + label + "\n")
	}
	return b.String()
}

func fieldLabel(field component.FormField) string {
	switch v := field.(type) {
	case component.TextField:
		suffix := ""
		if v.Validation != nil && v.Validation.Required {
			suffix = " *"
		}
		return v.Title + suffix
	case component.Dropdown:
		return v.Title + fmt.Sprintf(" (%d options)", len(v.Options))
	case component.Checkbox:
		if v.Label != "" {
			return v.Title + ": " + v.Label
		}
		return v.Title
	case component.DatePicker:
		return v.Title + " (date)"
	default:
		return ""
	}
}

// isForm reports whether a wire tree is a Form without fully decoding it.
func isForm(data []byte) bool {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Type == "Form"
}

// selectableItemIDs returns the list item ids in selectable-row order.
func selectableItemIDs(data []byte) []string {
	decoded, err := component.Unmarshal(data)
	if err != nil {
		return nil
	}
	list, ok := decoded.(component.List)
	if !ok {
		return nil
	}
	var ids []string
	for _, child := range list.Children {
		switch c := child.(type) {
		case component.ListItem:
			ids = append(ids, c.ID)
		case component.ListSection:
			for _, item := range c.Children {
				ids = append(ids, item.ID)
			}
		}
	}
	return ids
}

// SelectableCount counts the rows selection can land on.
func SelectableCount(data []byte) int {
	decoded, err := component.Unmarshal(data)
	if err != nil {
		return 0
	}
	switch v := decoded.(type) {
	case component.List:
		n := 0
		for _, child := range v.Children {
			switch c := child.(type) {
			case component.ListItem:
				n++
			case component.ListSection:
				n += len(c.Children)
			}
		}
		return n
	case component.Form:
		return len(v.Children)
	default:
		return 0
	}
}
