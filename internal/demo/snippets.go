// Package demo ships the built-in snippets extension. It doubles as the
// reference for extension authors: lists, forms, navigation, storage and the
// clipboard all appear here.
package demo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"nova/internal/component"
	"nova/internal/manifest"
	"nova/internal/runtime"
)

// Manifest declares the snippets extension the same way a nova.toml would.
func Manifest() *manifest.Manifest {
	return &manifest.Manifest{
		Extension: manifest.Meta{
			Name:        "snippets",
			Title:       "Snippets",
			Description: "Store and paste text snippets",
			Version:     "1.0.0",
			Author:      "nova",
		},
		Permissions: manifest.Permissions{
			Clipboard: true,
			Storage:   true,
			System:    true,
		},
		Commands: []manifest.Command{
			{
				Name:     "search-snippets",
				Title:    "Search Snippets",
				Mode:     manifest.ModeList,
				Keywords: []string{"clip", "paste", "text"},
			},
			{
				Name:  "new-snippet",
				Title: "New Snippet",
				Mode:  manifest.ModeForm,
			},
		},
	}
}

// Commands maps command names to their render functions.
func Commands() map[string]runtime.RenderFunc {
	return map[string]runtime.RenderFunc{
		"search-snippets": SearchSnippets,
		"new-snippet":     NewSnippet,
	}
}

func loadSnippets(ctx *runtime.Context) map[string]string {
	keys, err := ctx.Bridge().StorageKeys()
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		name, ok := strings.CutPrefix(key, "snippet:")
		if !ok {
			continue
		}
		value, found, err := ctx.Bridge().StorageGet(key)
		if err != nil || !found {
			continue
		}
		out[name] = value
	}
	return out
}

// SearchSnippets renders the stored snippets with copy, inspect and delete
// actions.
func SearchSnippets(ctx *runtime.Context) component.Component {
	// cell 0 is a refresh counter; bump re-renders after deletes
	runtime.UseState(ctx, 0)
	snippets := loadSnippets(ctx)

	names := make([]string, 0, len(snippets))
	for name := range snippets {
		names = append(names, name)
	}
	sort.Strings(names)

	children := make([]component.ListChild, 0, len(names))
	for _, name := range names {
		name := name
		body := snippets[name]

		copyToken := ctx.Handle("copy:"+name, func(c *runtime.Context, _ json.RawMessage) runtime.Result {
			if err := c.Bridge().ClipboardWrite(body); err != nil {
				return runtime.Errorf("copy failed: %v", err)
			}
			if err := c.CloseWindow(); err != nil {
				return runtime.Errorf("close window: %v", err)
			}
			return runtime.Success()
		})
		showToken := ctx.Handle("show:"+name, func(c *runtime.Context, _ json.RawMessage) runtime.Result {
			c.Push(snippetDetail(name, body))
			return runtime.Success()
		})
		deleteToken := ctx.Handle("delete:"+name, func(c *runtime.Context, _ json.RawMessage) runtime.Result {
			if err := c.Bridge().StorageRemove("snippet:" + name); err != nil {
				return runtime.Errorf("delete failed: %v", err)
			}
			bump(c)
			return runtime.Success()
		})

		children = append(children, &component.ListItem{
			ID:       name,
			Title:    name,
			Subtitle: preview(body),
			Icon:     component.SystemIcon("doc.text"),
			Keywords: strings.Fields(name),
			Accessories: []component.Accessory{
				component.TextAccessory(fmt.Sprintf("%d chars", len(body))),
			},
			Actions: &component.ActionPanel{Children: []component.Action{
				{ID: "copy", Title: "Copy to Clipboard", OnAction: copyToken},
				{ID: "show", Title: "Show Snippet", OnAction: showToken},
				{ID: "delete", Title: "Delete", Style: component.ActionStyleDestructive, OnAction: deleteToken},
			}},
		})
	}

	return &component.List{
		SearchBarPlaceholder: "Search snippets...",
		Filtering:            component.FilteringDefault,
		Children:             children,
	}
}

// bump forces a re-render after a mutation outside the state cells.
func bump(c *runtime.Context) {
	n, set := runtime.UseState(c, 0)
	set(n + 1)
}

func snippetDetail(name, body string) runtime.RenderFunc {
	return func(ctx *runtime.Context) component.Component {
		copyToken := ctx.Handle("copy", func(c *runtime.Context, _ json.RawMessage) runtime.Result {
			if err := c.Bridge().ClipboardWrite(body); err != nil {
				return runtime.Errorf("copy failed: %v", err)
			}
			return runtime.Success()
		})
		backToken := ctx.Handle("back", func(c *runtime.Context, _ json.RawMessage) runtime.Result {
			c.Pop()
			return runtime.Success()
		})
		return &component.Detail{
			Markdown: fmt.Sprintf("# %s\n\n```\n%s\n```", name, body),
			Metadata: &component.Metadata{Children: []component.MetadataItem{
				{Title: "Name", Text: name},
				{Title: "Length", Text: fmt.Sprintf("%d", len(body))},
			}},
			Actions: &component.ActionPanel{Children: []component.Action{
				{ID: "copy", Title: "Copy to Clipboard", OnAction: copyToken},
				{ID: "back", Title: "Back", OnAction: backToken},
			}},
		}
	}
}

// NewSnippet renders the creation form. Submit reads the field values from
// the dispatch input.
func NewSnippet(ctx *runtime.Context) component.Component {
	submitToken := ctx.Handle("submit", func(c *runtime.Context, input json.RawMessage) runtime.Result {
		var values struct {
			Name string `json:"name"`
			Body string `json:"body"`
		}
		if len(input) > 0 {
			if err := json.Unmarshal(input, &values); err != nil {
				return runtime.Errorf("bad form input: %v", err)
			}
		}
		if strings.TrimSpace(values.Name) == "" || values.Body == "" {
			return runtime.NeedsInput("name and body are required")
		}
		if err := c.Bridge().StorageSet("snippet:"+values.Name, values.Body); err != nil {
			return runtime.Errorf("save failed: %v", err)
		}
		return runtime.Success()
	})

	return &component.Form{
		OnSubmit: submitToken,
		Children: []component.FormField{
			&component.TextField{
				ID:    "name",
				Title: "Name",
				Validation: &component.FieldValidation{
					Required: true,
					Pattern:  `^[a-zA-Z0-9_-]+$`,
				},
			},
			&component.TextField{
				ID:    "body",
				Title: "Snippet",
				Validation: &component.FieldValidation{
					Required: true,
				},
			},
		},
	}
}

func preview(body string) string {
	line := body
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if len(line) > 60 {
		line = line[:60] + "..."
	}
	return line
}
