package contacts

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// plainText strips markup from user-supplied text. bluemonday escapes the
// text it keeps, so entities are decoded back; templates escape on output.
func plainText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
}

// clean trims and strips markup from every field of the input.
func (in ContactInput) clean() ContactInput {
	return ContactInput{
		FirstName:   plainText(in.FirstName),
		LastName:    plainText(in.LastName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Email:       strings.TrimSpace(in.Email),
		City:        plainText(in.City),
		StatusID:    strings.TrimSpace(in.StatusID),
	}
}
