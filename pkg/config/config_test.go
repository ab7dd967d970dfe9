package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(map[string]string{"DATABASE_URL": "postgres://localhost/contacts"}))

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/contacts", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4, cfg.WeatherConcurrency)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.NominatimURL)
	assert.Zero(t, cfg.DBMaxConns)
	assert.Zero(t, cfg.DBConnMaxLifetime)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"DATABASE_URL":         "postgres://db/contacts",
		"PORT":                 "9090",
		"NOMINATIM_URL":        "http://geo.local",
		"OPEN_METEO_URL":       "http://wx.local",
		"WEATHER_CONCURRENCY":  "8",
		"HTTP_TIMEOUT":         "3s",
		"DB_MAX_CONNS":         "20",
		"DB_MIN_CONNS":         "2",
		"DB_CONN_MAX_LIFETIME": "30m",
	}))

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://geo.local", cfg.NominatimURL)
	assert.Equal(t, "http://wx.local", cfg.OpenMeteoURL)
	assert.Equal(t, 8, cfg.WeatherConcurrency)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, int32(20), cfg.DBMaxConns)
	assert.Equal(t, int32(2), cfg.DBMinConns)
	assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"bad concurrency", map[string]string{"DATABASE_URL": "x", "WEATHER_CONCURRENCY": "zero"}},
		{"non-positive concurrency", map[string]string{"DATABASE_URL": "x", "WEATHER_CONCURRENCY": "0"}},
		{"bad timeout", map[string]string{"DATABASE_URL": "x", "HTTP_TIMEOUT": "soon"}},
		{"bad max conns", map[string]string{"DATABASE_URL": "x", "DB_MAX_CONNS": "0"}},
		{"min above max conns", map[string]string{"DATABASE_URL": "x", "DB_MAX_CONNS": "2", "DB_MIN_CONNS": "5"}},
		{"bad conn lifetime", map[string]string{"DATABASE_URL": "x", "DB_CONN_MAX_LIFETIME": "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(env(tt.vars))
			assert.Error(t, err)
		})
	}
}
