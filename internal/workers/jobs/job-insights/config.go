package jobinsights

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxJobsActive   int           `mapstructure:"max_jobs_active"`
	Timeout         time.Duration `mapstructure:"timeout"`
	BaseURL         string        `mapstructure:"base_url"`
	AppID           string        `mapstructure:"app_id"`
	AppKey          string        `mapstructure:"app_key"`
	DefaultLocation string        `mapstructure:"default_location"`
	ResultsPerPage  int           `mapstructure:"results_per_page"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   10,
		Timeout:         30 * time.Second,
		BaseURL:         "https://api.adzuna.com",
		DefaultLocation: "us",
		ResultsPerPage:  5,
		RequestTimeout:  10 * time.Second,
		CacheTTL:        15 * time.Minute,
	}
}

// Validate checks structural settings only. Missing credentials are reported
// per request so the rest of the service can run without them.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.ResultsPerPage <= 0 || c.ResultsPerPage > 50 {
		return fmt.Errorf("results_per_page must be between 1 and 50")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

func (c *Config) HasCredentials() bool {
	return c.AppID != "" && c.AppKey != ""
}
