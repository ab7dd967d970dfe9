package contacts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"contactbook/api/services/formguard"
)

// HandleListContacts returns one page of contacts filtered by q, status and sort.
func (s *Service) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r.URL.Query())
	slog.Debug("Listing contacts", "search", q.Search, "sort", q.Sort, "page", q.Page)

	page, err := s.repo.ListContacts(r.Context(), q)
	if err != nil {
		slog.Error("Failed to list contacts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// HandleGetContact returns a single contact.
func (s *Service) HandleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "contact not found")
		return
	}

	c, err := s.repo.GetContact(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get contact", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "contact not found")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// HandleCreateContact validates the payload with the contact form rules and stores it.
func (s *Service) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	var in ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in = in.clean()

	if errs := formguard.Check(formguard.ContactFields(), in.values()); errs != nil {
		writeValidationError(w, errs)
		return
	}

	c, err := s.repo.CreateContact(r.Context(), in)
	switch {
	case errors.Is(err, ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, ErrUnknownStatus):
		writeValidationError(w, formguard.Errors{"status": "Select a valid status."})
		return
	case err != nil:
		slog.Error("Failed to create contact", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("Contact created", "id", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

// HandleListStatuses returns every contact status.
func (s *Service) HandleListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.repo.ListStatuses(r.Context())
	if err != nil {
		slog.Error("Failed to list statuses", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if statuses == nil {
		statuses = []Status{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

// HandleGetStatus returns a single contact status.
func (s *Service) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "status not found")
		return
	}

	st, err := s.repo.GetStatus(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get status", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if st == nil {
		writeError(w, http.StatusNotFound, "status not found")
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// listQueryFrom reads q, status, sort and page. A malformed status or page is ignored.
func listQueryFrom(v url.Values) ListQuery {
	q := ListQuery{
		Search: v.Get("q"),
		Sort:   v.Get("sort"),
		Page:   1,
	}
	if _, ok := sortColumns[q.Sort]; !ok {
		q.Sort = DefaultSort
	}
	if id, err := uuid.Parse(v.Get("status")); err == nil {
		q.StatusID = &id
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	return q
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func writeValidationError(w http.ResponseWriter, errs formguard.Errors) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"message": "validation failed",
		"errors":  errs,
	})
}
