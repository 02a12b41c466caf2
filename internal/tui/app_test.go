package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func TestFormInputShowsFieldTitles(t *testing.T) {
	tree := []byte(`{
		"type": "Form",
		"onSubmit": "submit",
		"children": [
			{"type": "Form.TextField", "id": "name", "title": "Name"},
			{"type": "Form.TextField", "id": "body", "title": "Snippet"},
			{"type": "Form.TextField", "id": "tag"}
		]
	}`)

	app := App{formInput: textinput.New(), keys: DefaultKeyMap()}
	model, _ := app.startFormInput(tree)
	a := model.(App)
	if a.formInput.Placeholder != "Name" {
		t.Fatalf("placeholder = %q", a.formInput.Placeholder)
	}

	a.formInput.SetValue("greeting")
	model, _ = a.updateFormInput(tea.KeyMsg{Type: tea.KeyEnter})
	a = model.(App)
	if a.formInput.Placeholder != "Snippet" {
		t.Errorf("second placeholder = %q", a.formInput.Placeholder)
	}
	if a.formValues["name"] != "greeting" {
		t.Errorf("values = %+v", a.formValues)
	}

	// an untitled field falls back to its id
	a.formInput.SetValue("hello")
	model, _ = a.updateFormInput(tea.KeyMsg{Type: tea.KeyEnter})
	a = model.(App)
	if a.formInput.Placeholder != "tag" {
		t.Errorf("fallback placeholder = %q", a.formInput.Placeholder)
	}
}
