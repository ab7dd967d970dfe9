package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim API.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// ErrCityNotFound is returned when the geocoder has no match for a city.
var ErrCityNotFound = errors.New("city not found")

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (Coordinates, error)
}

// NominatimClient calls the Nominatim search API.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimClient returns a client for baseURL; an empty baseURL uses the public API.
// Nominatim's usage policy requires an identifying User-Agent.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// degrees accepts both "52.23" and 52.23; Nominatim sends strings.
type degrees float64

func (d *degrees) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %s: %w", b, err)
	}
	*d = degrees(v)
	return nil
}

type nominatimPlace struct {
	Lat *degrees `json:"lat"`
	Lon *degrees `json:"lon"`
}

// Geocode returns the coordinates of the best match for city, or ErrCityNotFound.
func (c *NominatimClient) Geocode(ctx context.Context, city string) (Coordinates, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Coordinates{}, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(places) == 0 {
		return Coordinates{}, ErrCityNotFound
	}

	p := places[0]
	if p.Lat == nil || p.Lon == nil {
		return Coordinates{}, errors.New("geocoding result has no coordinates")
	}
	return Coordinates{Latitude: float64(*p.Lat), Longitude: float64(*p.Lon)}, nil
}
