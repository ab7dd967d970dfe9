package contacts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"contactbook/api/pkg/dom"
	"contactbook/api/services/weather"
)

var (
	activeStatus   = Status{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Active"}
	archivedStatus = Status{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Name: "Archived"}
)

// stubRepo implements ContactRepo in memory for testing without a database.
type stubRepo struct {
	contacts  []Contact
	statuses  []Status
	err       error
	createErr error

	lastQuery ListQuery
	created   []ContactInput
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		statuses: []Status{activeStatus, archivedStatus},
		contacts: []Contact{
			{
				ID: uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"), FirstName: "Jan", LastName: "Kowalski",
				PhoneNumber: "123456789", Email: "jan@example.com", City: "Warsaw",
				Status: &activeStatus, CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
			{
				ID: uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"), FirstName: "Anna", LastName: "Nowak",
				PhoneNumber: "987654321", Email: "anna@example.com", City: "Kraków",
				CreatedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			},
		},
	}
}

func (r *stubRepo) ListStatuses(_ context.Context) ([]Status, error) {
	return r.statuses, r.err
}

func (r *stubRepo) GetStatus(_ context.Context, id uuid.UUID) (*Status, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.statuses {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListContacts(_ context.Context, q ListQuery) (*ContactPage, error) {
	r.lastQuery = q
	if r.err != nil {
		return nil, r.err
	}
	page, pages := paginate(q.page(), len(r.contacts))
	return &ContactPage{Contacts: r.contacts, Total: len(r.contacts), Page: page, TotalPages: pages}, nil
}

func (r *stubRepo) GetContact(_ context.Context, id uuid.UUID) (*Contact, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.contacts {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) CreateContact(_ context.Context, in ContactInput) (*Contact, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.created = append(r.created, in)
	c := Contact{
		ID: uuid.New(), FirstName: in.FirstName, LastName: in.LastName,
		PhoneNumber: in.PhoneNumber, Email: in.Email, City: in.City, CreatedAt: time.Now(),
	}
	return &c, nil
}

// stubWeather fills every weather cell with a fixed marker naming its city.
type stubWeather struct {
	calls int
}

func (s *stubWeather) Run(_ context.Context, doc dom.Document) []weather.CellResult {
	s.calls++
	var results []weather.CellResult
	for _, cell := range doc.ElementsByClass(weather.CellClass) {
		city, _ := cell.Attr(weather.CityAttr)
		cell.SetText("sunny in " + city)
		results = append(results, weather.CellResult{City: city, Status: weather.StatusRendered})
	}
	return results
}

func newTestService(repo *stubRepo) (*Service, *stubWeather) {
	w := &stubWeather{}
	svc, err := newService(repo, w)
	if err != nil {
		panic(err)
	}
	return svc, w
}

func setupRouter(svc *Service) *mux.Router {
	router := mux.NewRouter()
	svc.LoadRoutes(router.PathPrefix("/api/v1").Subrouter())
	svc.LoadPages(router)
	return router
}
