package contacts

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"contactbook/api/pkg/dom"
	"contactbook/api/services/formguard"
)

// ContactFormID is the id of the contact entry form on the page.
const ContactFormID = "contact-form"

type sortOption struct {
	Value string
	Label string
}

var sortOptions = []sortOption{
	{"last_name", "Last name A-Z"},
	{"-last_name", "Last name Z-A"},
	{"created_at", "Oldest first"},
	{"-created_at", "Newest first"},
}

type listView struct {
	Page        *ContactPage
	Statuses    []Status
	SortOptions []sortOption
	Query       string
	Status      string
	Sort        string
	PrevURL     string
	NextURL     string
}

type formView struct {
	Input     ContactInput
	Statuses  []Status
	FormError string
}

// HandleContactList renders the contact list with the weather cells filled in.
func (s *Service) HandleContactList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listQueryFrom(r.URL.Query())

	page, err := s.repo.ListContacts(ctx, q)
	if err != nil {
		slog.Error("Failed to list contacts", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		slog.Error("Failed to list statuses", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	view := listView{
		Page:        page,
		Statuses:    statuses,
		SortOptions: sortOptions,
		Query:       q.Search,
		Sort:        q.Sort,
	}
	if q.StatusID != nil {
		view.Status = q.StatusID.String()
	}
	if page.HasPrev() {
		view.PrevURL = pageURL(r.URL.Query(), page.Page-1)
	}
	if page.HasNext() {
		view.NextURL = pageURL(r.URL.Query(), page.Page+1)
	}

	doc, err := s.renderDocument("contact_list.html", view)
	if err != nil {
		slog.Error("Failed to render contact list", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.weather.Run(ctx, doc)
	writeDocument(w, http.StatusOK, doc)
}

// HandleContactForm renders an empty contact form.
func (s *Service) HandleContactForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(r.Context(), w, http.StatusOK, formView{}, false)
}

// HandleContactSubmit runs the form guard over the submitted values. A blocked
// submission re-renders the annotated form; otherwise the contact is stored.
func (s *Service) HandleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := ContactInput{
		FirstName:   r.PostForm.Get("first_name"),
		LastName:    r.PostForm.Get("last_name"),
		PhoneNumber: r.PostForm.Get("phone_number"),
		Email:       r.PostForm.Get("email"),
		City:        r.PostForm.Get("city"),
		StatusID:    r.PostForm.Get("status"),
	}.clean()

	if s.renderForm(r.Context(), w, http.StatusUnprocessableEntity, formView{Input: in}, true) {
		return
	}

	c, err := s.repo.CreateContact(r.Context(), in)
	switch {
	case errors.Is(err, ErrDuplicate):
		s.renderForm(r.Context(), w, http.StatusConflict, formView{Input: in, FormError: "A contact with this phone number or email already exists."}, false)
		return
	case errors.Is(err, ErrUnknownStatus):
		s.renderForm(r.Context(), w, http.StatusUnprocessableEntity, formView{Input: in, FormError: "Select a valid status."}, false)
		return
	case err != nil:
		slog.Error("Failed to create contact", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	slog.Info("Contact created", "id", c.ID)
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

// renderForm writes the contact form. With guard set, the form guard runs
// first and the page is written only when it blocks the submission; the
// return value reports whether a response was written.
func (s *Service) renderForm(ctx context.Context, w http.ResponseWriter, status int, view formView, guard bool) bool {
	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		slog.Error("Failed to list statuses", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return true
	}
	view.Statuses = statuses

	doc, err := s.renderDocument("contact_form.html", view)
	if err != nil {
		slog.Error("Failed to render contact form", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return true
	}

	if guard {
		g, err := formguard.New(doc, ContactFormID, formguard.ContactFields())
		if err != nil {
			slog.Error("Failed to bind form guard", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return true
		}
		ev := &formguard.SubmitEvent{}
		g.Submit(ev)
		if !ev.DefaultPrevented() {
			return false
		}
	}

	writeDocument(w, status, doc)
	return true
}

func (s *Service) renderDocument(name string, data any) (*dom.HTMLDocument, error) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return dom.Parse(&buf)
}

func writeDocument(w http.ResponseWriter, status int, doc *dom.HTMLDocument) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := doc.Render(w); err != nil {
		slog.Error("Failed to write page", "error", err)
	}
}

func pageURL(v url.Values, page int) string {
	q := url.Values{}
	for k, vals := range v {
		q[k] = vals
	}
	q.Set("page", strconv.Itoa(page))
	return "/contacts?" + q.Encode()
}
