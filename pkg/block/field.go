package block

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldKind identifies the closed set of field variants
type FieldKind int

const (
	// FieldLabel is static display text, never serialized
	FieldLabel FieldKind = iota
	// FieldTextInput is a free-form text value
	FieldTextInput
	// FieldCheckbox is a boolean value
	FieldCheckbox
	// FieldDropdown is a selection from a fixed option list
	FieldDropdown
	// FieldNumber is a numeric value
	FieldNumber
	// FieldColour is a #rrggbb colour value
	FieldColour
	// FieldVariable is a reference to a workspace variable by name
	FieldVariable
)

// String returns the string representation of a FieldKind
func (k FieldKind) String() string {
	switch k {
	case FieldLabel:
		return "label"
	case FieldTextInput:
		return "text"
	case FieldCheckbox:
		return "checkbox"
	case FieldDropdown:
		return "dropdown"
	case FieldNumber:
		return "number"
	case FieldColour:
		return "colour"
	case FieldVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Option is a single dropdown choice
type Option struct {
	Label string
	Value string
}

// Field is a tagged variant over the field kinds. Each variant uses only its
// relevant payload fields; the rest stay zero.
type Field struct {
	Kind     FieldKind
	Name     string
	Text     string   // label text, text input value, colour, variable name
	Checked  bool     // checkbox state
	Value    float64  // number value
	Options  []Option // dropdown choices
	Selected int      // dropdown index into Options
}

// NewLabelField creates a static label field
func NewLabelField(text string) *Field {
	return &Field{Kind: FieldLabel, Text: text}
}

// NewTextField creates a text input field
func NewTextField(name, text string) *Field {
	return &Field{Kind: FieldTextInput, Name: name, Text: text}
}

// NewCheckboxField creates a checkbox field
func NewCheckboxField(name string, checked bool) *Field {
	return &Field{Kind: FieldCheckbox, Name: name, Checked: checked}
}

// NewDropdownField creates a dropdown field with the first option selected
func NewDropdownField(name string, options []Option) *Field {
	return &Field{Kind: FieldDropdown, Name: name, Options: options}
}

// NewNumberField creates a numeric field
func NewNumberField(name string, value float64) *Field {
	return &Field{Kind: FieldNumber, Name: name, Value: value}
}

// NewColourField creates a colour field
func NewColourField(name, colour string) *Field {
	return &Field{Kind: FieldColour, Name: name, Text: colour}
}

// NewVariableField creates a variable reference field
func NewVariableField(name, variable string) *Field {
	return &Field{Kind: FieldVariable, Name: name, Text: variable}
}

// IsSerializable reports whether the field carries a value worth persisting
func (f *Field) IsSerializable() bool {
	return f.Kind != FieldLabel
}

// SerializedValue returns the field value as a string, in the form used by
// workspace serialization and code generation
func (f *Field) SerializedValue() string {
	switch f.Kind {
	case FieldCheckbox:
		if f.Checked {
			return "TRUE"
		}
		return "FALSE"
	case FieldDropdown:
		if f.Selected >= 0 && f.Selected < len(f.Options) {
			return f.Options[f.Selected].Value
		}
		return ""
	case FieldNumber:
		return strconv.FormatFloat(f.Value, 'f', -1, 64)
	default:
		return f.Text
	}
}

// SetFromString parses a serialized value into the field, validating it
// against the field kind
func (f *Field) SetFromString(value string) error {
	switch f.Kind {
	case FieldLabel:
		return errors.New("field: label fields are not editable")
	case FieldTextInput, FieldVariable:
		f.Text = value
	case FieldColour:
		if !strings.HasPrefix(value, "#") || len(value) != 7 {
			return fmt.Errorf("field %s: invalid colour value: %s", f.Name, value)
		}
		f.Text = value
	case FieldCheckbox:
		switch strings.ToUpper(value) {
		case "TRUE":
			f.Checked = true
		case "FALSE":
			f.Checked = false
		default:
			return fmt.Errorf("field %s: invalid checkbox value: %s", f.Name, value)
		}
	case FieldNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("field %s: invalid number value: %s", f.Name, value)
		}
		f.Value = n
	case FieldDropdown:
		for i, opt := range f.Options {
			if opt.Value == value {
				f.Selected = i
				return nil
			}
		}
		return fmt.Errorf("field %s: value not in dropdown options: %s", f.Name, value)
	}
	return nil
}

// SelectOption selects the dropdown option with the given value
func (f *Field) SelectOption(value string) error {
	if f.Kind != FieldDropdown {
		return fmt.Errorf("field %s: not a dropdown", f.Name)
	}
	return f.SetFromString(value)
}

// Copy returns a deep copy of the field
func (f *Field) Copy() *Field {
	nf := *f
	if f.Options != nil {
		nf.Options = make([]Option, len(f.Options))
		copy(nf.Options, f.Options)
	}
	return &nf
}
