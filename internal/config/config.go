// Package config defines service configuration and how it is loaded.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and CVMATCH_* environment variables on top.
// - Errors returned from this package wrap ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"fmt"
)

const (
	defaultMaxUploadBytes = 10 << 20
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the job catalog (.csv or .xlsx).
	CatalogPath string `koanf:"catalog_path"`

	// TopN is the number of postings returned by catalog-wide matching.
	TopN int `koanf:"top_n"`

	// MaxSuggestions caps the missing-skill suggestions of a target report.
	MaxSuggestions int `koanf:"max_suggestions"`

	// MaxUploadBytes caps the size of an uploaded résumé.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// ReportCacheSize bounds the report cache; 0 disables eviction.
	ReportCacheSize int `koanf:"report_cache_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory analysis queue.
	QueueSize int `koanf:"queue_size"`

	// MaxAnalysesPerUser bounds the analysis history kept per user.
	MaxAnalysesPerUser int `koanf:"max_analyses_per_user"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		CatalogPath:     "static/job_data.csv",
		TopN:            3,
		MaxSuggestions:  5,
		MaxUploadBytes:  defaultMaxUploadBytes,
		ReportCacheSize: 1024,
		WorkerCount:     4,
		QueueSize:       256,

		MaxAnalysesPerUser: 20,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CatalogPath == "":
		return fmt.Errorf("%w: catalog_path must not be empty", ErrInvalidConfig)
	case c.TopN <= 0:
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidConfig, c.TopN)
	case c.MaxSuggestions <= 0:
		return fmt.Errorf("%w: max_suggestions must be positive, got %d", ErrInvalidConfig, c.MaxSuggestions)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive, got %d", ErrInvalidConfig, c.MaxUploadBytes)
	case c.ReportCacheSize < 0:
		return fmt.Errorf("%w: report_cache_size must not be negative", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.MaxAnalysesPerUser <= 0:
		return fmt.Errorf("%w: max_analyses_per_user must be positive, got %d", ErrInvalidConfig, c.MaxAnalysesPerUser)
	}
	return nil
}
