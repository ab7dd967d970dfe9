// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything main needs to wire the service.
type Config struct {
	DatabaseURL        string
	Port               string
	CORSOrigin         string
	NominatimURL       string
	OpenMeteoURL       string
	UserAgent          string
	WeatherConcurrency int
	HTTPTimeout        time.Duration

	// Pool limits; zero keeps the pgxpool defaults.
	DBMaxConns        int32
	DBMinConns        int32
	DBConnMaxLifetime time.Duration
}

// Load reads the environment. DATABASE_URL is required; everything else has a default.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		Port:               "8080",
		CORSOrigin:         "http://localhost:3003",
		UserAgent:          "contactbook/1.0",
		WeatherConcurrency: 4,
		HTTPTimeout:        10 * time.Second,
	}

	dbURL, ok := lookup("DATABASE_URL")
	if !ok || dbURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}
	cfg.DatabaseURL = dbURL

	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.Port = v
	}
	if v, ok := lookup("CORS_ORIGIN"); ok && v != "" {
		cfg.CORSOrigin = v
	}
	if v, ok := lookup("USER_AGENT"); ok && v != "" {
		cfg.UserAgent = v
	}
	cfg.NominatimURL, _ = lookup("NOMINATIM_URL")
	cfg.OpenMeteoURL, _ = lookup("OPEN_METEO_URL")

	if v, ok := lookup("WEATHER_CONCURRENCY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("WEATHER_CONCURRENCY must be a positive integer, got %q", v)
		}
		cfg.WeatherConcurrency = n
	}
	if v, ok := lookup("HTTP_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	if v, ok := lookup("DB_MAX_CONNS"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("DB_MAX_CONNS must be a positive integer, got %q", v)
		}
		cfg.DBMaxConns = int32(n)
	}
	if v, ok := lookup("DB_MIN_CONNS"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("DB_MIN_CONNS must be a non-negative integer, got %q", v)
		}
		cfg.DBMinConns = int32(n)
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", cfg.DBMinConns, cfg.DBMaxConns)
	}
	if v, ok := lookup("DB_CONN_MAX_LIFETIME"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
		}
		cfg.DBConnMaxLifetime = d
	}

	return cfg, nil
}
