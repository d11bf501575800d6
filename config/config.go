// Package config loads the ParentEye server and client settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	// Listen is the HTTP listen address.
	Listen       string        `yaml:"listen"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// RateLimitPerMinute caps /getNearbyLatestEvents per client IP. 0 disables it.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// DatabaseConfig locates the sqlite event store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// QueryConfig holds the server-side query defaults.
type QueryConfig struct {
	DefaultLatitude    float64 `yaml:"default_latitude"`
	DefaultLongitude   float64 `yaml:"default_longitude"`
	DefaultRangeInKm   float64 `yaml:"default_range_km"`
	DefaultNumOfResult int     `yaml:"default_num_of_result"`
	MaxNumOfResult     int     `yaml:"max_num_of_result"`
}

// ClientConfig drives the discovery pipeline.
type ClientConfig struct {
	BackendURL  string  `yaml:"backend_url"`
	RangeInKm   float64 `yaml:"range_km"`
	NumOfResult int     `yaml:"num_of_result"`
	// Timezone is the IANA zone target dates are formatted in.
	Timezone      string `yaml:"timezone"`
	RetryAttempts uint   `yaml:"retry_attempts"`
	// ResolveMissingCoordinates geocodes venue text of offline dataset events without lat/lng.
	ResolveMissingCoordinates bool `yaml:"resolve_missing_coordinates"`
	// OfflineDataset, when set, serves queries from a JSON file instead of BackendURL.
	OfflineDataset string `yaml:"offline_dataset"`
}

// GeocodingConfig configures the Nominatim client and its cache.
type GeocodingConfig struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	CacheSize         int     `yaml:"cache_size"`
	Workers           int     `yaml:"workers"`
}

// LoggingConfig enables a rotating log file next to stdout.
type LoggingConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Query     QueryConfig     `yaml:"query"`
	Client    ClientConfig    `yaml:"client"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:             ":8787",
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			RateLimitPerMinute: 120,
		},
		Database: DatabaseConfig{Path: "data/events.db"},
		Query: QueryConfig{
			DefaultLatitude:    47.6091814,
			DefaultLongitude:   -122.1795901,
			DefaultRangeInKm:   10,
			DefaultNumOfResult: 10,
			MaxNumOfResult:     500,
		},
		Client: ClientConfig{
			BackendURL:    "https://parenteye-backend.parenteye.workers.dev",
			RangeInKm:     80,
			NumOfResult:   100,
			Timezone:      "America/Los_Angeles",
			RetryAttempts: 3,
		},
		Geocoding: GeocodingConfig{
			BaseURL:           "https://nominatim.openstreetmap.org",
			UserAgent:         "ParentEye/1.0",
			RequestsPerSecond: 1,
			CacheSize:         512,
			Workers:           4,
		},
		Logging: LoggingConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Normalize fills in missing/zero values with defaults so partially-filled
// files still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Server.Listen == "" {
		c.Server.Listen = def.Server.Listen
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.RateLimitPerMinute < 0 {
		c.Server.RateLimitPerMinute = 0
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Query.DefaultRangeInKm <= 0 {
		c.Query.DefaultRangeInKm = def.Query.DefaultRangeInKm
	}
	if c.Query.DefaultNumOfResult <= 0 {
		c.Query.DefaultNumOfResult = def.Query.DefaultNumOfResult
	}
	if c.Query.MaxNumOfResult <= 0 {
		c.Query.MaxNumOfResult = def.Query.MaxNumOfResult
	}
	if c.Client.BackendURL == "" {
		c.Client.BackendURL = def.Client.BackendURL
	}
	if c.Client.RangeInKm <= 0 {
		c.Client.RangeInKm = def.Client.RangeInKm
	}
	if c.Client.NumOfResult <= 0 {
		c.Client.NumOfResult = def.Client.NumOfResult
	}
	if c.Client.Timezone == "" {
		c.Client.Timezone = def.Client.Timezone
	}
	if c.Client.RetryAttempts == 0 {
		c.Client.RetryAttempts = def.Client.RetryAttempts
	}
	if c.Geocoding.BaseURL == "" {
		c.Geocoding.BaseURL = def.Geocoding.BaseURL
	}
	if c.Geocoding.UserAgent == "" {
		c.Geocoding.UserAgent = def.Geocoding.UserAgent
	}
	if c.Geocoding.RequestsPerSecond <= 0 {
		c.Geocoding.RequestsPerSecond = def.Geocoding.RequestsPerSecond
	}
	if c.Geocoding.CacheSize <= 0 {
		c.Geocoding.CacheSize = def.Geocoding.CacheSize
	}
	if c.Geocoding.Workers <= 0 {
		c.Geocoding.Workers = def.Geocoding.Workers
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = def.Logging.MaxSizeMB
	}
}

// applyEnv overrides selected fields from the environment.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PARENTEYE_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := getenv("PARENTEYE_DATABASE"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("PARENTEYE_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := getenv("PARENTEYE_GEOCODER_URL"); v != "" {
		c.Geocoding.BaseURL = v
	}
}

// Location resolves Client.Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Client.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads path from the OS filesystem. See LoadFS.
func Load(path string) (*Config, error) {
	return LoadFS(afero.NewOsFs(), path, os.Getenv)
}

// LoadFS reads path from fsys over the defaults, normalizes the result and
// applies environment overrides. An empty path or a missing file yields the
// defaults.
func LoadFS(fsys afero.Fs, path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := afero.ReadFile(fsys, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.Normalize()
	if getenv != nil {
		cfg.applyEnv(getenv)
	}
	return cfg, nil
}
