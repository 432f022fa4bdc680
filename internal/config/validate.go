package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := validateBaseURL(c.API.BaseURL); err != nil {
		return err
	}
	if !strings.HasPrefix(c.API.CoinsPath, "/") {
		return fmt.Errorf("api.coins_path must start with /, got %q", c.API.CoinsPath)
	}
	if !strings.HasPrefix(c.API.LegacyPath, "/") {
		return fmt.Errorf("api.legacy_path must start with /, got %q", c.API.LegacyPath)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be > 0")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}
	if c.Poller.AttemptTimeout <= 0 {
		return errors.New("poller.attempt_timeout must be > 0")
	}

	if c.View.TopN < 1 {
		return errors.New("view.top_n must be >= 1")
	}
	if c.View.TickerN < 1 {
		return errors.New("view.ticker_n must be >= 1")
	}

	if c.Server.IsEnabled() {
		if c.Server.Addr == "" {
			return errors.New("server.addr is required")
		}
		if !strings.HasPrefix(c.Server.MetricsPath, "/") {
			return fmt.Errorf("server.metrics_path must start with /, got %q", c.Server.MetricsPath)
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("api.base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host, got %q", raw)
	}
	return nil
}
