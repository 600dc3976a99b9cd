// Package answers synthesizes randomized, schema-valid answer sets.
// One Set is generated per submission attempt and never reused, so
// retried submissions do not present identical fingerprints to the
// target form.
package answers

import (
	"fmt"
	"math/rand"
	"sync"

	"formsmith/internal/data"
	"formsmith/internal/schema"
	"formsmith/internal/template"
)

// Answer is one synthesized field value.
type Answer struct {
	Field   schema.Field
	Value   string // text value or selected choice option
	Checked bool   // checkbox target state
}

// SectionAnswers groups the answers of one form section, in field order.
type SectionAnswers struct {
	Name    string
	Answers []Answer
}

// Set is a complete answer set for one submission attempt.
type Set struct {
	Sections []SectionAnswers
}

// Generator produces answer sets for a fixed schema. Safe for concurrent
// use by multiple workers.
type Generator struct {
	form     *schema.Form
	profiles *data.Profiles // nil when no profile file is configured

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator for the form. profiles may be nil.
func NewGenerator(form *schema.Form, profiles *data.Profiles) *Generator {
	return &Generator{
		form:     form,
		profiles: profiles,
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
}

// Generate synthesizes a fresh answer set. Every choice value is a
// member of its field's option set; text values come from the field's
// template expression, with profile variables resolved when available.
func (g *Generator) Generate() (*Set, error) {
	vars := template.NoVariables
	if g.profiles != nil {
		vars = g.profiles.Next()
	}

	set := &Set{Sections: make([]SectionAnswers, 0, len(g.form.Sections))}
	for _, sec := range g.form.Sections {
		sa := SectionAnswers{Name: sec.Name, Answers: make([]Answer, 0, len(sec.Fields))}
		for _, field := range sec.Fields {
			ans, err := g.answerFor(field, vars)
			if err != nil {
				return nil, fmt.Errorf("section %q field %q: %w", sec.Name, field.Prompt, err)
			}
			sa.Answers = append(sa.Answers, ans)
		}
		set.Sections = append(set.Sections, sa)
	}
	return set, nil
}

func (g *Generator) answerFor(field schema.Field, vars template.Variables) (Answer, error) {
	switch field.Kind {
	case schema.KindChoice:
		return Answer{Field: field, Value: field.Options[g.intn(len(field.Options))]}, nil

	case schema.KindCheckbox:
		return Answer{Field: field, Checked: field.Checked}, nil

	case schema.KindText:
		value, err := template.Substitute(field.Value, vars)
		if err != nil {
			return Answer{}, err
		}
		if field.MaxLen > 0 && len(value) > field.MaxLen {
			value = value[:field.MaxLen]
		}
		return Answer{Field: field, Value: value}, nil

	default:
		return Answer{}, fmt.Errorf("unknown field kind %q", field.Kind)
	}
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}
