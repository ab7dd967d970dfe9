package weather

import (
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

// DefaultOpenMeteoURL is the public Open-Meteo API.
const DefaultOpenMeteoURL = "https://api.open-meteo.com"

// hourLayout is the timestamp format Open-Meteo uses for current and hourly times.
const hourLayout = "2006-01-02T15:04"

// hourPrefix is the leading date and hour of any Open-Meteo timestamp.
const hourPrefix = "2006-01-02T15"

// Forecaster fetches current conditions for geographic coordinates.
type Forecaster interface {
	Forecast(ctx context.Context, c Coordinates) (*Snapshot, error)
}

// Snapshot is the current weather plus the hourly humidity series it is read against.
type Snapshot struct {
	Temperature    float64
	WindSpeed      float64
	Time           string
	HourlyTime     []string
	HourlyHumidity []float64
}

// Humidity returns the relative humidity for the hour containing Time.
// It reports false when that hour is not in the series.
func (s *Snapshot) Humidity() (float64, bool) {
	hour, ok := truncateToHour(s.Time)
	if !ok {
		return 0, false
	}
	for i, t := range s.HourlyTime {
		if t == hour && i < len(s.HourlyHumidity) {
			return s.HourlyHumidity[i], true
		}
	}
	return 0, false
}

// truncateToHour keys ts by its date and hour, so "2025-04-19T15:42" and
// "2025-04-19T15:42:30" both become "2025-04-19T15:00".
func truncateToHour(ts string) (string, bool) {
	if len(ts) < len(hourPrefix) {
		return "", false
	}
	t, err := time.Parse(hourPrefix, ts[:len(hourPrefix)])
	if err != nil {
		return "", false
	}
	return t.Format(hourLayout), true
}

// OpenMeteoClient calls the Open-Meteo public weather API.
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenMeteoClient returns a client for baseURL; an empty baseURL uses the public API.
func NewOpenMeteoClient(baseURL string, timeout time.Duration) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// openMeteoResponse is the relevant subset of the Open-Meteo API response.
type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
	Hourly struct {
		Time             []string  `json:"time"`
		RelativeHumidity []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

// Forecast fetches current weather and the hourly humidity series for c.
func (c *OpenMeteoClient) Forecast(ctx context.Context, coords Coordinates) (*Snapshot, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("current_weather", "true")
	q.Set("hourly", "relative_humidity_2m")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var result openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if result.CurrentWeather == nil {
		return nil, errors.New("weather response has no current_weather")
	}

	return &Snapshot{
		Temperature:    result.CurrentWeather.Temperature,
		WindSpeed:      result.CurrentWeather.WindSpeed,
		Time:           result.CurrentWeather.Time,
		HourlyTime:     result.Hourly.Time,
		HourlyHumidity: result.Hourly.RelativeHumidity,
	}, nil
}
