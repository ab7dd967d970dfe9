package contacts

import (
	"time"

	"github.com/google/uuid"
)

// Status is one of the predefined contact statuses (e.g. Active, Archived).
type Status struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Contact is a stored contact person.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	City        string    `json:"city"`
	Status      *Status   `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// FullName is the first and last name joined.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ContactInput is the payload accepted by the form and the JSON API.
type ContactInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	City        string `json:"city"`
	StatusID    string `json:"status_id"`
}

// values exposes the input keyed by form field name.
func (in ContactInput) values() map[string]string {
	return map[string]string{
		"first_name":   in.FirstName,
		"last_name":    in.LastName,
		"phone_number": in.PhoneNumber,
		"email":        in.Email,
		"city":         in.City,
		"status":       in.StatusID,
	}
}

const PageSize = 5

// Sort orders accepted by ListContacts. Anything else falls back to DefaultSort.
var sortColumns = map[string]string{
	"last_name":   "c.last_name ASC",
	"-last_name":  "c.last_name DESC",
	"created_at":  "c.created_at ASC",
	"-created_at": "c.created_at DESC",
}

const DefaultSort = "last_name"

// ListQuery filters and orders the contact list.
type ListQuery struct {
	Search   string
	StatusID *uuid.UUID
	Sort     string
	Page     int
}

func (q ListQuery) orderBy() string {
	if col, ok := sortColumns[q.Sort]; ok {
		return col
	}
	return sortColumns[DefaultSort]
}

func (q ListQuery) page() int {
	if q.Page < 1 {
		return 1
	}
	return q.Page
}

// paginate returns the page to show for total matches and the page count.
// A page past the end is clamped to the last page.
func paginate(page, total int) (int, int) {
	totalPages := max(1, (total+PageSize-1)/PageSize)
	return min(max(page, 1), totalPages), totalPages
}

// ContactPage is one page of contacts plus the total match count.
type ContactPage struct {
	Contacts   []Contact `json:"results"`
	Total      int       `json:"count"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

// HasPrev reports whether there is a page before this one.
func (p ContactPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether there is a page after this one.
func (p ContactPage) HasNext() bool { return p.Page < p.TotalPages }
