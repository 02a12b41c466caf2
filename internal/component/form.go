package component

import (
	"encoding/json"
	"fmt"
)

// Form 组件：收集用户输入的表单。
// Form collects user input through typed fields.
type Form struct {
	IsLoading bool        `json:"isLoading"`
	OnSubmit  string      `json:"onSubmit,omitempty"`
	OnChange  string      `json:"onChange,omitempty"`
	Children  []FormField `json:"children"`
}

// FormField is one of TextField, Dropdown, Checkbox, DatePicker.
type FormField interface {
	fieldType() string
	fieldID() string
	fieldTitle() string
}

func (TextField) fieldType() string  { return "Form.TextField" }
func (Dropdown) fieldType() string   { return "Form.Dropdown" }
func (Checkbox) fieldType() string   { return "Form.Checkbox" }
func (DatePicker) fieldType() string { return "Form.DatePicker" }

func (f TextField) fieldID() string  { return f.ID }
func (f Dropdown) fieldID() string   { return f.ID }
func (f Checkbox) fieldID() string   { return f.ID }
func (f DatePicker) fieldID() string { return f.ID }

func (f TextField) fieldTitle() string  { return f.Title }
func (f Dropdown) fieldTitle() string   { return f.Title }
func (f Checkbox) fieldTitle() string   { return f.Title }
func (f DatePicker) fieldTitle() string { return f.Title }

// TextFieldType selects the input mode of a text field.
type TextFieldType string

const (
	TextInput     TextFieldType = "text"
	PasswordInput TextFieldType = "password"
	NumberInput   TextFieldType = "number"
)

// TextField is a single-line input field.
type TextField struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Placeholder  string           `json:"placeholder,omitempty"`
	DefaultValue string           `json:"defaultValue,omitempty"`
	FieldType    TextFieldType    `json:"fieldType,omitempty"`
	Validation   *FieldValidation `json:"validation,omitempty"`
}

// FieldValidation carries client-side validation rules for a text field.
// Pattern must compile as a regular expression or the tree is rejected at
// serialization time.
type FieldValidation struct {
	Required  bool   `json:"required"`
	Pattern   string `json:"pattern,omitempty"`
	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
}

// Dropdown is a select field.
type Dropdown struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	DefaultValue string           `json:"defaultValue,omitempty"`
	Options      []DropdownOption `json:"options"`
}

// DropdownOption is one selectable entry of a Dropdown.
type DropdownOption struct {
	Value string `json:"value"`
	Title string `json:"title"`
	Icon  *Icon  `json:"icon,omitempty"`
}

// Checkbox is a boolean field.
type Checkbox struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Label        string `json:"label,omitempty"`
	DefaultValue bool   `json:"defaultValue"`
}

// DatePicker is a date (optionally date-time) field. DefaultValue is ISO 8601.
type DatePicker struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	DefaultValue string `json:"defaultValue,omitempty"`
	IncludeTime  bool   `json:"includeTime"`
}

func (f Form) MarshalJSON() ([]byte, error) {
	type alias Form
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"Form", alias(f)})
}

func (f TextField) MarshalJSON() ([]byte, error) {
	type alias TextField
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"Form.TextField", alias(f)})
}

func (f Dropdown) MarshalJSON() ([]byte, error) {
	type alias Dropdown
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"Form.Dropdown", alias(f)})
}

func (f Checkbox) MarshalJSON() ([]byte, error) {
	type alias Checkbox
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"Form.Checkbox", alias(f)})
}

func (f DatePicker) MarshalJSON() ([]byte, error) {
	type alias DatePicker
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"Form.DatePicker", alias(f)})
}

func (f *Form) UnmarshalJSON(data []byte) error {
	type alias Form
	aux := struct {
		*alias
		Children []json.RawMessage `json:"children"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.Children = nil
	for _, raw := range aux.Children {
		field, err := decodeFormField(raw)
		if err != nil {
			return err
		}
		f.Children = append(f.Children, field)
	}
	return nil
}

func decodeFormField(raw json.RawMessage) (FormField, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "Form.TextField":
		var v TextField
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "Form.Dropdown":
		var v Dropdown
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "Form.Checkbox":
		var v Checkbox
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "Form.DatePicker":
		var v DatePicker
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, &ValidationError{Component: "Form", Field: "type", Reason: fmt.Sprintf("unknown form field %q", probe.Type)}
	}
}
