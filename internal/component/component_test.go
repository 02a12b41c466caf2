package component

import (
	"errors"
	"strings"
	"testing"
)

func sampleList() List {
	return List{
		SearchBarPlaceholder: "Search snippets...",
		Children: []ListChild{
			ListItem{
				ID:       "snip-1",
				Title:    "Greeting",
				Subtitle: "hello world",
				Icon:     SystemIcon("doc.text"),
				Accessories: []Accessory{
					TagAccessory("text", "#dea584"),
					TextAccessory("2h ago"),
				},
				Keywords: []string{"hello"},
				Actions: &ActionPanel{Children: []Action{
					{ID: "copy", Title: "Copy", OnAction: "copy:snip-1"},
					{ID: "delete", Title: "Delete", Style: ActionStyleDestructive, OnAction: "delete:snip-1"},
				}},
			},
			ListSection{
				Title: "Recent",
				Children: []ListItem{
					{ID: "snip-2", Title: "Signature", Actions: &ActionPanel{Children: []Action{
						{ID: "copy", Title: "Copy", OnAction: "copy:snip-2"},
					}}},
				},
			},
		},
	}
}

func TestMarshalListRoundtrip(t *testing.T) {
	data, err := Marshal(sampleList())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"type":"List"`, `"type":"List.Item"`, `"type":"List.Section"`, `"searchBarPlaceholder"`, `"onAction":"copy:snip-1"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("wire output missing %s:\n%s", want, data)
		}
	}

	parsed, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	list, ok := parsed.(List)
	if !ok {
		t.Fatalf("expected List, got %T", parsed)
	}
	if len(list.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(list.Children))
	}
	if _, ok := list.Children[0].(ListItem); !ok {
		t.Fatalf("expected first child to be an item, got %T", list.Children[0])
	}
	section, ok := list.Children[1].(ListSection)
	if !ok {
		t.Fatalf("expected second child to be a section, got %T", list.Children[1])
	}
	if len(section.Children) != 1 || section.Children[0].ID != "snip-2" {
		t.Fatalf("unexpected section contents: %+v", section)
	}
}

func TestMarshalRejectsDuplicateItemID(t *testing.T) {
	list := List{Children: []ListChild{
		ListItem{ID: "dup", Title: "A"},
		ListSection{Children: []ListItem{{ID: "dup", Title: "B"}}},
	}}
	_, err := Marshal(list)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), "duplicate") {
		t.Fatalf("unexpected error: %v", verr)
	}
}

func TestMarshalRejectsEmptyID(t *testing.T) {
	list := List{Children: []ListChild{ListItem{ID: "", Title: "A"}}}
	if _, err := Marshal(list); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestMarshalRejectsBadPattern(t *testing.T) {
	form := Form{Children: []FormField{
		TextField{ID: "email", Title: "Email", Validation: &FieldValidation{Pattern: "(["}},
	}}
	_, err := Marshal(form)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "validation.pattern" {
		t.Fatalf("unexpected field: %s", verr.Field)
	}
}

func TestFormDuplicateFieldID(t *testing.T) {
	form := Form{Children: []FormField{
		TextField{ID: "name", Title: "Name"},
		Checkbox{ID: "name", Title: "Name again"},
	}}
	if _, err := Marshal(form); err == nil {
		t.Fatal("expected error for duplicate field id")
	}
}

func TestUnmarshalUnknownTag(t *testing.T) {
	cases := []string{
		`{"type":"Grid","children":[]}`,
		`{"children":[]}`,
		`{"type":"List","children":[{"type":"List.Row","id":"a","title":"A"}]}`,
		`{"type":"Form","children":[{"type":"Form.Slider","id":"a","title":"A"}]}`,
	}
	for _, raw := range cases {
		if _, err := Unmarshal([]byte(raw)); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestFormRoundtrip(t *testing.T) {
	form := Form{
		OnSubmit: "submit:new-snippet",
		Children: []FormField{
			TextField{ID: "name", Title: "Name", Validation: &FieldValidation{Required: true, MinLength: 2}},
			Dropdown{ID: "lang", Title: "Language", DefaultValue: "go", Options: []DropdownOption{
				{Value: "go", Title: "Go"},
				{Value: "rust", Title: "Rust"},
			}},
			Checkbox{ID: "shared", Title: "Visibility", Label: "Share with team"},
			DatePicker{ID: "expires", Title: "Expires", IncludeTime: true},
		},
	}
	data, err := Marshal(form)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := parsed.(Form)
	if !ok {
		t.Fatalf("expected Form, got %T", parsed)
	}
	if len(got.Children) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(got.Children))
	}
	if got.OnSubmit != "submit:new-snippet" {
		t.Fatalf("unexpected onSubmit: %s", got.OnSubmit)
	}
	dd, ok := got.Children[1].(Dropdown)
	if !ok || len(dd.Options) != 2 {
		t.Fatalf("unexpected dropdown: %+v", got.Children[1])
	}
}

func TestDetailValidation(t *testing.T) {
	detail := Detail{
		Markdown: "# Hello",
		Metadata: &Metadata{Children: []MetadataItem{
			{Title: "Author", Text: "nova"},
			{Title: "Website", Link: &MetadataLink{Text: "Visit", URL: "https://example.com"}},
		}},
	}
	if _, err := Marshal(detail); err != nil {
		t.Fatal(err)
	}

	detail.Metadata.Children = append(detail.Metadata.Children, MetadataItem{Title: ""})
	if _, err := Marshal(detail); err == nil {
		t.Fatal("expected error for empty metadata title")
	}
}

func TestAccessoryValidation(t *testing.T) {
	list := List{Children: []ListChild{
		ListItem{ID: "a", Title: "A", Accessories: []Accessory{{Type: "badge"}}},
	}}
	if _, err := Marshal(list); err == nil {
		t.Fatal("expected error for unknown accessory type")
	}

	list = List{Children: []ListChild{
		ListItem{ID: "a", Title: "A", Icon: &Icon{Type: IconURL}},
	}}
	if _, err := Marshal(list); err == nil {
		t.Fatal("expected error for url icon without url")
	}
}

func TestCollectActionsOrder(t *testing.T) {
	actions := CollectActions(sampleList())
	if len(actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(actions))
	}
	tokens := []string{actions[0].Token, actions[1].Token, actions[2].Token}
	want := []string{"copy:snip-1", "delete:snip-1", "copy:snip-2"}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("action order mismatch at %d: got %v want %v", i, tokens, want)
		}
	}
	if actions[1].Style != ActionStyleDestructive {
		t.Fatalf("expected destructive style, got %s", actions[1].Style)
	}
}
