// Package contacts serves the contact book: a JSON API and the HTML pages on
// which the form guard and the weather widget run.
package contacts

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"contactbook/api/pkg/dom"
	"contactbook/api/services/weather"
)

//go:embed templates/*.html
var templateFS embed.FS

// ContactRepo abstracts contact persistence for testability.
type ContactRepo interface {
	ListStatuses(ctx context.Context) ([]Status, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*Status, error)
	ListContacts(ctx context.Context, q ListQuery) (*ContactPage, error)
	GetContact(ctx context.Context, id uuid.UUID) (*Contact, error)
	CreateContact(ctx context.Context, in ContactInput) (*Contact, error)
}

// WeatherFiller fills the weather cells of a page.
type WeatherFiller interface {
	Run(ctx context.Context, doc dom.Document) []weather.CellResult
}

// Service wires together the repository, the page templates and the weather widget.
type Service struct {
	repo    ContactRepo
	weather WeatherFiller
	pages   *template.Template
}

// NewService creates a Service with a real PostgreSQL repository.
func NewService(pool *pgxpool.Pool, widget WeatherFiller) (*Service, error) {
	return newService(NewRepository(pool), widget)
}

func newService(repo ContactRepo, widget WeatherFiller) (*Service, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Service{repo: repo, weather: widget, pages: pages}, nil
}

// jsonMiddleware sets the Content-Type header to application/json.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoadRoutes registers the JSON API handlers on the given router.
func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	contacts := parentRouter.PathPrefix("/contacts").Subrouter()
	contacts.StrictSlash(false)
	contacts.Use(jsonMiddleware)
	contacts.HandleFunc("", s.HandleListContacts).Methods("GET")
	contacts.HandleFunc("", s.HandleCreateContact).Methods("POST")
	contacts.HandleFunc("/{id}", s.HandleGetContact).Methods("GET")

	statuses := parentRouter.PathPrefix("/statuses").Subrouter()
	statuses.Use(jsonMiddleware)
	statuses.HandleFunc("", s.HandleListStatuses).Methods("GET")
	statuses.HandleFunc("/{id}", s.HandleGetStatus).Methods("GET")
}

// LoadPages registers the HTML page handlers on the given router.
func (s *Service) LoadPages(router *mux.Router) {
	router.Handle("/", http.RedirectHandler("/contacts", http.StatusFound)).Methods("GET")
	router.HandleFunc("/contacts", s.HandleContactList).Methods("GET")
	router.HandleFunc("/contacts/new", s.HandleContactForm).Methods("GET")
	router.HandleFunc("/contacts/new", s.HandleContactSubmit).Methods("POST")
}
