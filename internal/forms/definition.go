// Package forms keeps the field state of the site's forms for one page
// visit, validates it and runs the submit workflow.
package forms

import (
	"context"
	"fmt"
)

// Kind names a form.
type Kind string

const (
	KindDonor        Kind = "donor"
	KindRecipient    Kind = "recipient"
	KindEvent        Kind = "event"
	KindPost         Kind = "post"
	KindRegistration Kind = "registration"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDonor, KindRecipient, KindEvent, KindPost, KindRegistration:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown form %q", s)
}

type FieldType int

const (
	FieldText FieldType = iota
	FieldBool
	FieldSet
)

// Field describes one input. A non-empty Options restricts text values and
// set members to that list.
type Field struct {
	Name    string
	Type    FieldType
	Options []string
	Default string
}

type Message struct {
	Title       string
	Description string
}

// AcceptFunc receives the decoded, valid form (a pointer to the Target type).
type AcceptFunc func(ctx context.Context, form any) error

type Definition struct {
	Kind   Kind
	Fields []Field
	// Target returns a fresh pointer to the struct the fields decode into.
	// Its validate tags are the form's constraints.
	Target         func() any
	Success        Message
	ResetOnSuccess bool
	// ClosePanel is the panel hidden after a successful submit, if any.
	ClosePanel string
	Accept     AcceptFunc
}

func (d *Definition) field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (d *Definition) initialValues() map[string]any {
	values := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		switch f.Type {
		case FieldBool:
			values[f.Name] = false
		case FieldSet:
			values[f.Name] = []string{}
		default:
			values[f.Name] = f.Default
		}
	}
	return values
}
