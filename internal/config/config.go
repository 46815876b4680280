// Package config loads service settings from environment variables, with
// sensible defaults for everything except the data directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/geovale/cmip6-index-engine/internal/domain"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string
	HTTPAddr  string

	Model    string
	Scenario domain.Scenario

	// DataDir is the root of the local daily-grid fixture store.
	DataDir string

	CacheCapacity   int
	WetDayThreshold float64

	// Export settings.
	ExportDir     string
	ExportWorkers int

	// Visualization sampling.
	SamplingScale int     // meters per sample when reducing over a region
	MaxPixels     float64 // pixel budget per export

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cacheCapacity, err := envInt("CACHE_CAPACITY", 100)
	if err != nil {
		return nil, err
	}
	exportWorkers, err := envInt("EXPORT_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	samplingScale, err := envInt("SAMPLING_SCALE", 10000)
	if err != nil {
		return nil, err
	}
	wetThreshold, err := envFloat("WET_DAY_THRESHOLD_MM", 1.0)
	if err != nil {
		return nil, err
	}
	maxPixels, err := envFloat("MAX_PIXELS", 1e9)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:  envOrDefault("HTTP_ADDR", ":8080"),

		Model:    envOrDefault("CMIP6_MODEL", "ACCESS-CM2"),
		Scenario: domain.Scenario(envOrDefault("CMIP6_SCENARIO", string(domain.ScenarioSSP245))),

		DataDir: os.Getenv("DATA_DIR"),

		CacheCapacity:   cacheCapacity,
		WetDayThreshold: wetThreshold,

		ExportDir:     envOrDefault("EXPORT_DIR", "exports"),
		ExportWorkers: exportWorkers,

		SamplingScale: samplingScale,
		MaxPixels:     maxPixels,

		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if !domain.ValidModel(cfg.Model) {
		return nil, fmt.Errorf("unknown CMIP6_MODEL %q", cfg.Model)
	}
	if !domain.ValidScenario(cfg.Scenario) {
		return nil, fmt.Errorf("unknown CMIP6_SCENARIO %q", cfg.Scenario)
	}
	if cfg.CacheCapacity <= 0 {
		return nil, errors.New("CACHE_CAPACITY must be positive")
	}
	if cfg.ExportWorkers <= 0 {
		return nil, errors.New("EXPORT_WORKERS must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
