package component

import (
	"fmt"
	"regexp"
)

// ValidationError reports a tree that violates the protocol invariants.
// A tree failing validation is rejected before it reaches the native renderer.
type ValidationError struct {
	Component string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s.%s: %s", e.Component, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Component, e.Reason)
}

// validate 在序列化前检查整棵树：id 非空且在树内唯一，正则可编译。
// validate runs the full-tree checks before serialization: ids are non-empty
// and unique, regular expression patterns compile.
func (l List) validate() error {
	seen := make(map[string]bool)
	checkItem := func(item ListItem) error {
		if item.ID == "" {
			return &ValidationError{Component: "List.Item", Field: "id", Reason: "must not be empty"}
		}
		if item.Title == "" {
			return &ValidationError{Component: "List.Item", Field: "title", Reason: "must not be empty"}
		}
		if seen[item.ID] {
			return &ValidationError{Component: "List.Item", Field: "id", Reason: fmt.Sprintf("duplicate id %q", item.ID)}
		}
		seen[item.ID] = true
		if err := item.Icon.validate(); err != nil {
			return err
		}
		for _, acc := range item.Accessories {
			if err := acc.validate(); err != nil {
				return err
			}
		}
		return validatePanel(item.Actions)
	}
	for _, child := range l.Children {
		switch n := derefChild(child).(type) {
		case ListItem:
			if err := checkItem(n); err != nil {
				return err
			}
		case ListSection:
			for _, item := range n.Children {
				if err := checkItem(item); err != nil {
					return err
				}
			}
		default:
			return &ValidationError{Component: "List", Reason: "unknown child node"}
		}
	}
	return nil
}

func (d Detail) validate() error {
	if err := validatePanel(d.Actions); err != nil {
		return err
	}
	if d.Metadata == nil {
		return nil
	}
	for _, item := range d.Metadata.Children {
		if item.Title == "" {
			return &ValidationError{Component: "Detail.Metadata", Field: "title", Reason: "must not be empty"}
		}
		if err := item.Icon.validate(); err != nil {
			return err
		}
		if item.Link != nil && item.Link.URL == "" {
			return &ValidationError{Component: "Detail.Metadata", Field: "link.url", Reason: "must not be empty"}
		}
	}
	return nil
}

func (f Form) validate() error {
	seen := make(map[string]bool)
	for _, field := range f.Children {
		id := field.fieldID()
		if id == "" {
			return &ValidationError{Component: field.fieldType(), Field: "id", Reason: "must not be empty"}
		}
		if field.fieldTitle() == "" {
			return &ValidationError{Component: field.fieldType(), Field: "title", Reason: "must not be empty"}
		}
		if seen[id] {
			return &ValidationError{Component: field.fieldType(), Field: "id", Reason: fmt.Sprintf("duplicate id %q", id)}
		}
		seen[id] = true
		switch tf := field.(type) {
		case TextField:
			if err := tf.validateRules(); err != nil {
				return err
			}
		case *TextField:
			if err := tf.validateRules(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f TextField) validateRules() error {
	switch f.FieldType {
	case "", TextInput, PasswordInput, NumberInput:
	default:
		return &ValidationError{Component: "Form.TextField", Field: "fieldType", Reason: "unknown field type " + string(f.FieldType)}
	}
	if f.Validation == nil || f.Validation.Pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(f.Validation.Pattern); err != nil {
		return &ValidationError{Component: "Form.TextField", Field: "validation.pattern", Reason: err.Error()}
	}
	return nil
}

func validatePanel(panel *ActionPanel) error {
	if panel == nil {
		return nil
	}
	for _, a := range panel.Children {
		if a.ID == "" {
			return &ValidationError{Component: "Action", Field: "id", Reason: "must not be empty"}
		}
		if a.Title == "" {
			return &ValidationError{Component: "Action", Field: "title", Reason: "must not be empty"}
		}
		switch a.Style {
		case "", ActionStyleDefault, ActionStyleDestructive:
		default:
			return &ValidationError{Component: "Action", Field: "style", Reason: "unknown style " + string(a.Style)}
		}
		if err := a.Icon.validate(); err != nil {
			return err
		}
	}
	return nil
}
