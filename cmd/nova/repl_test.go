package main

import (
	"strings"
	"testing"
)

func TestFormSubmitToken(t *testing.T) {
	tree := []byte(`{"type":"Form","onSubmit":"submit","children":[]}`)
	if got := formSubmitToken(tree); got != "submit" {
		t.Errorf("token = %q", got)
	}
	if got := formSubmitToken([]byte(`{"type":"List","children":[]}`)); got != "" {
		t.Errorf("list token = %q", got)
	}
	if got := formSubmitToken(nil); got != "" {
		t.Errorf("nil token = %q", got)
	}
}

func TestSlashCompleterCoversCommands(t *testing.T) {
	names := map[string]bool{}
	for _, child := range slashCompleter().GetChildren() {
		names[strings.TrimSpace(string(child.GetName()))] = true
	}
	for _, want := range []string{"/run", "/submit", "/tree", "/quit"} {
		if !names[want] {
			t.Errorf("completer missing %s", want)
		}
	}
	if names["<text>"] {
		t.Error("free-text placeholder leaked into completion")
	}
}

func TestBasicLineInput(t *testing.T) {
	in := newBasicLineInput(strings.NewReader("hello\nworld\r\n"), nil)
	line, err := in.ReadLine("> ")
	if err != nil || line != "hello" {
		t.Fatalf("line = %q, %v", line, err)
	}
	line, err = in.ReadLine("> ")
	if err != nil || line != "world" {
		t.Fatalf("line = %q, %v", line, err)
	}
}
