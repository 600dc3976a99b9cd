// Package schema describes the target form: its sections, fields, and
// the value domain of every field. Schemas are loaded from YAML or taken
// from the built-in default survey.
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind discriminates how a field is filled.
type Kind string

const (
	// KindText is a free-text input (also email/number inputs).
	KindText Kind = "text"
	// KindChoice is a single-select radio group.
	KindChoice Kind = "choice"
	// KindCheckbox is a checkbox toggled by its label.
	KindCheckbox Kind = "checkbox"
)

// Form is the root form description.
type Form struct {
	Name     string    `yaml:"name"`
	Sections []Section `yaml:"sections"`
}

// Section is one page of the form. Sections after the first are reached
// through the "Next" button.
type Section struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`
}

// Field is a single question.
type Field struct {
	// Prompt is the visible question text used to locate the field.
	Prompt string `yaml:"prompt"`
	Kind   Kind   `yaml:"kind"`
	// Value is a template expression for text fields, e.g.
	// "${random(16,25)}" or "${random(150,195)} cm". May reference
	// profile variables from a data source.
	Value string `yaml:"value,omitempty"`
	// Options is the enumerated choice domain for choice fields.
	Options []string `yaml:"options,omitempty"`
	// Checked is the target state for checkbox fields.
	Checked bool `yaml:"checked,omitempty"`
	// MaxLen bounds generated text length (0 = unbounded).
	MaxLen int `yaml:"maxLen,omitempty"`
}

// Load reads and parses a YAML form schema file.
func Load(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var form Form
	if err := yaml.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}
	return &form, nil
}

// Validate checks structural constraints the answer generator and the
// driver rely on.
func (f *Form) Validate() error {
	if len(f.Sections) == 0 {
		return fmt.Errorf("schema %q has no sections", f.Name)
	}
	for si, sec := range f.Sections {
		if len(sec.Fields) == 0 {
			return fmt.Errorf("section %q has no fields", sec.Name)
		}
		for fi, field := range sec.Fields {
			if field.Prompt == "" {
				return fmt.Errorf("section %q field %d has no prompt", sec.Name, fi)
			}
			switch field.Kind {
			case KindText:
				if field.Value == "" {
					return fmt.Errorf("text field %q has no value template", field.Prompt)
				}
			case KindChoice:
				if len(field.Options) == 0 {
					return fmt.Errorf("choice field %q has no options", field.Prompt)
				}
			case KindCheckbox:
				// no extra constraints
			default:
				return fmt.Errorf("section %d field %q has unknown kind %q", si, field.Prompt, field.Kind)
			}
		}
	}
	return nil
}

// FieldCount returns the total number of fields across all sections.
func (f *Form) FieldCount() int {
	n := 0
	for _, sec := range f.Sections {
		n += len(sec.Fields)
	}
	return n
}
