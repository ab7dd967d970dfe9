package formguard

import (
	"regexp"
	"sort"
	"strings"
)

// Field describes one tracked form input: its name, the rule it must pass
// and the message shown when it does not.
type Field struct {
	Name    string
	Label   string
	Message string
	Valid   func(value string) bool
}

var (
	phonePattern = regexp.MustCompile(`^\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidPhone reports whether value is exactly nine digits once trimmed.
func ValidPhone(value string) bool {
	return phonePattern.MatchString(strings.TrimSpace(value))
}

// ValidEmail reports whether value looks like local@domain.tld once trimmed.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// Required reports whether value has any non-space content.
func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Selected reports whether a real option was chosen. The placeholder option
// carries an empty value.
func Selected(value string) bool {
	return value != ""
}

// ContactFields returns the descriptors for the contact entry form.
func ContactFields() []Field {
	return []Field{
		{Name: "phone_number", Label: "Phone number", Message: "Phone number must consist of exactly 9 digits.", Valid: ValidPhone},
		{Name: "email", Label: "Email", Message: "Please provide a valid email address.", Valid: ValidEmail},
		{Name: "first_name", Label: "First name", Message: "First name is required.", Valid: Required},
		{Name: "last_name", Label: "Last name", Message: "Last name is required.", Valid: Required},
		{Name: "city", Label: "City", Message: "City is required.", Valid: Required},
		{Name: "status", Label: "Status", Message: "Status is required.", Valid: Selected},
	}
}

// Errors maps field names to the message of the rule they failed.
type Errors map[string]string

func (e Errors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e[name])
	}
	return strings.Join(parts, "; ")
}

// Check applies the rules to plain values without a document. A missing key
// is checked as the empty string. It returns nil when every field passes.
func Check(fields []Field, values map[string]string) Errors {
	var errs Errors
	for _, f := range fields {
		if f.Valid(values[f.Name]) {
			continue
		}
		if errs == nil {
			errs = make(Errors)
		}
		errs[f.Name] = f.Message
	}
	return errs
}
