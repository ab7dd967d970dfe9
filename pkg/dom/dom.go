// Package dom exposes the small slice of a page's document model that the
// form guard and the weather widget need, so both can run against a parsed
// HTML page on the server or against a fake in tests.
package dom

// Document is the page-level capability: lookup and element creation.
// Lookups that find nothing return a nil Element.
type Document interface {
	ElementByID(id string) Element
	// Field returns the first input, select or textarea whose name attribute matches.
	Field(name string) Element
	ElementsByClass(class string) []Element
	CreateElement(tag string) Element
}

// Element is a single node of the document.
type Element interface {
	Tag() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	AddClass(classes ...string)
	RemoveClass(classes ...string)
	HasClass(class string) bool

	// Value is the current form value: the value attribute of an input, the
	// text of a textarea, or the selected option of a select.
	Value() string
	Text() string
	SetText(text string)
	SetInnerHTML(markup string) error

	// InsertAfter moves the element so it directly follows ref.
	InsertAfter(ref Element)
	Remove()
	Attached() bool
}
