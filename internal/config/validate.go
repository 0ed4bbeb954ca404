package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := validateBaseURL("backend.base_url", c.Backend.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("catalog.base_url", c.Catalog.BaseURL); err != nil {
		return err
	}

	if c.Backend.RetryAttempts < 0 {
		return fmt.Errorf("backend.retry_attempts must be >= 0 (got %d)", c.Backend.RetryAttempts)
	}
	if c.Backend.RetryDelay < 0 {
		return fmt.Errorf("backend.retry_delay must be >= 0 (got %v)", c.Backend.RetryDelay)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be > 0 (got %v)", c.Backend.Timeout)
	}

	if c.Scanner.FrameRate <= 0 {
		return fmt.Errorf("scanner.frame_rate must be > 0 (got %d)", c.Scanner.FrameRate)
	}
	if c.Scanner.BoxSize <= 0 {
		return fmt.Errorf("scanner.box_size must be > 0 (got %d)", c.Scanner.BoxSize)
	}

	if c.Dashboard.ExpiryWindowDays <= 0 {
		return fmt.Errorf("dashboard.expiry_window_days must be > 0 (got %d)", c.Dashboard.ExpiryWindowDays)
	}

	if c.RateLimit.Enabled && c.RateLimit.MaxPerMinute <= 0 {
		return fmt.Errorf("rate_limit.max_per_minute must be > 0 when enabled (got %d)", c.RateLimit.MaxPerMinute)
	}

	return nil
}

func validateBaseURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL (got %q)", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host (got %q)", field, raw)
	}
	return nil
}
