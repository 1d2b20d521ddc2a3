package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds scraper configuration.
type Config struct {
	BaseURL       string
	Delay         time.Duration // base delay: backoff unit and rate-limit pause
	Timeout       time.Duration
	MaxRetries    int
	MaxProducts   int // cap on containers processed per page
	UserAgent     string
	OutputDir     string
	OutputFormat  string // json, csv, or dual
	DedupeMaxSize int
	MetricsAddr   string
	Verbose       bool
}

// DefaultConfig returns conservative defaults for the live target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "https://www.producthunt.com",
		Delay:         time.Second,
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		MaxProducts:   20,
		UserAgent:     "ProductHunt Daily Recap CLI Tool v1.0",
		OutputDir:     "data",
		OutputFormat:  "json",
		DedupeMaxSize: 1024,
		MetricsAddr:   "",
		Verbose:       false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be positive")
	}
	if c.MaxProducts <= 0 {
		return fmt.Errorf("max products must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.OutputFormat != "json" && c.OutputFormat != "csv" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be json, csv, or dual")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe cache size must be positive")
	}

	return nil
}
