// Package weather fills the weather cells of a page with current conditions
// for each cell's city, using a geocoder and a weather data service.
package weather

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"contactbook/api/pkg/dom"
)

const (
	// CellClass marks an element that displays weather for a city.
	CellClass = "weather-data"
	// CityAttr holds the city name on a weather cell.
	CityAttr = "data-city"

	DefaultConcurrency = 4
)

// Status is the final state of a weather cell.
type Status string

const (
	StatusRendered Status = "rendered"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

// CellResult reports what happened to one cell.
type CellResult struct {
	City   string
	Status Status
	Err    error
}

// Widget resolves and renders weather for every cell on a page.
type Widget struct {
	geocoder    Geocoder
	forecaster  Forecaster
	logger      *slog.Logger
	concurrency int
}

// Option configures a Widget.
type Option func(*Widget)

// WithLogger sets the logger used for failed lookups.
func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// WithConcurrency bounds how many cells are resolved at once.
func WithConcurrency(n int) Option {
	return func(w *Widget) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// NewWidget creates a Widget backed by the given services.
func NewWidget(geocoder Geocoder, forecaster Forecaster, opts ...Option) *Widget {
	w := &Widget{
		geocoder:    geocoder,
		forecaster:  forecaster,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run fills every weather cell in doc. A failure is logged and rendered in
// its own cell only. Results are in document order.
func (w *Widget) Run(ctx context.Context, doc dom.Document) []CellResult {
	cells := doc.ElementsByClass(CellClass)
	results := make([]CellResult, len(cells))

	// The document is not safe for concurrent writes.
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(w.concurrency)

	for i, cell := range cells {
		i, cell := i, cell
		g.Go(func() error {
			city, _ := cell.Attr(CityAttr)
			markup, res := w.resolve(ctx, city)

			mu.Lock()
			defer mu.Unlock()
			if err := cell.SetInnerHTML(markup); err != nil {
				w.logger.Error("Failed to render weather cell", "city", city, "error", err)
			}
			results[i] = res
			return nil
		})
	}
	// Only the limit is used; cell errors are recorded in results, never returned.
	_ = g.Wait()

	return results
}

func (w *Widget) resolve(ctx context.Context, city string) (string, CellResult) {
	res := CellResult{City: city}
	if strings.TrimSpace(city) == "" {
		res.Status = StatusNotFound
		return notFoundHTML, res
	}

	coords, err := w.geocoder.Geocode(ctx, city)
	if errors.Is(err, ErrCityNotFound) {
		w.logger.Debug("City not found", "city", city)
		res.Status = StatusNotFound
		return notFoundHTML, res
	}
	if err != nil {
		return w.fail(res, err)
	}

	snapshot, err := w.forecaster.Forecast(ctx, coords)
	if err != nil {
		return w.fail(res, err)
	}

	res.Status = StatusRendered
	return Render(snapshot), res
}

func (w *Widget) fail(res CellResult, err error) (string, CellResult) {
	w.logger.Error("Weather fetch failed", "city", res.City, "error", err)
	res.Status = StatusFailed
	res.Err = err
	return errorHTML, res
}
