// Package formguard validates the contact entry form on submission. Invalid
// inputs are marked and followed by a single error message, and the
// submission is suppressed while any field fails.
package formguard

import (
	"errors"
	"fmt"

	"contactbook/api/pkg/dom"
)

// ErrFormNotFound is returned by New when the document has no form with the given id.
var ErrFormNotFound = errors.New("form not found")

const (
	// InvalidClass marks an input that failed its rule.
	InvalidClass = "border-red-500"
	// ErrorTag is the element used for the message shown under an invalid input.
	ErrorTag = "p"
)

// ErrorClasses are applied to every error message element.
var ErrorClasses = []string{"text-sm", "text-red-600", "mt-1"}

// SubmitEvent is a single submission attempt.
type SubmitEvent struct {
	prevented bool
}

// PreventDefault stops the form from being posted.
func (e *SubmitEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether the submission was blocked.
func (e *SubmitEvent) DefaultPrevented() bool { return e.prevented }

// Outcome is the result of one field on one submission attempt.
type Outcome struct {
	Field   string
	Value   string
	Valid   bool
	Message string
}

type boundField struct {
	Field
	input dom.Element
	// errEl is created on the first failure and reused afterwards.
	errEl dom.Element
}

// Guard holds the inputs of one form and the error element owned by each.
type Guard struct {
	doc    dom.Document
	fields []*boundField
}

// New binds fields to their inputs in doc. Inputs that are absent from the
// page are skipped and never block a submission.
func New(doc dom.Document, formID string, fields []Field) (*Guard, error) {
	if doc.ElementByID(formID) == nil {
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, formID)
	}

	g := &Guard{doc: doc}
	for _, f := range fields {
		input := doc.Field(f.Name)
		if input == nil {
			continue
		}
		g.fields = append(g.fields, &boundField{Field: f, input: input})
	}
	return g, nil
}

// Submit validates every bound field against its current value and updates
// the page. It calls ev.PreventDefault when any field fails.
func (g *Guard) Submit(ev *SubmitEvent) []Outcome {
	outcomes := make([]Outcome, 0, len(g.fields))
	valid := true

	for _, f := range g.fields {
		value := f.input.Value()
		ok := f.Valid(value)
		if ok {
			g.clear(f)
		} else {
			g.mark(f)
			valid = false
		}

		out := Outcome{Field: f.Name, Value: value, Valid: ok}
		if !ok {
			out.Message = f.Message
		}
		outcomes = append(outcomes, out)
	}

	if !valid {
		ev.PreventDefault()
	}
	return outcomes
}

func (g *Guard) mark(f *boundField) {
	f.input.AddClass(InvalidClass)
	if f.errEl == nil {
		f.errEl = g.doc.CreateElement(ErrorTag)
		f.errEl.AddClass(ErrorClasses...)
	}
	f.errEl.SetText(f.Message)
	f.errEl.InsertAfter(f.input)
}

func (g *Guard) clear(f *boundField) {
	f.input.RemoveClass(InvalidClass)
	if f.errEl != nil {
		f.errEl.Remove()
	}
}
