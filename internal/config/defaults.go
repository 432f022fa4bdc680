package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL        = "http://localhost:8080"
	DefaultCoinsPath      = "/coins"
	DefaultLegacyPath     = "/fiyatlar"
	DefaultAPITimeout     = 10 * time.Second
	DefaultPollInterval   = 3 * time.Second
	DefaultAttemptTimeout = 10 * time.Second
	DefaultTopN           = 4
	DefaultTickerN        = 8
	DefaultServerAddr     = ":3000"
	DefaultMetricsPath    = "/metrics"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.CoinsPath == "" {
		c.API.CoinsPath = DefaultCoinsPath
	}
	if c.API.LegacyPath == "" {
		c.API.LegacyPath = DefaultLegacyPath
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.AttemptTimeout == 0 {
		c.Poller.AttemptTimeout = DefaultAttemptTimeout
	}

	// View defaults
	if c.View.TopN == 0 {
		c.View.TopN = DefaultTopN
	}
	if c.View.TickerN == 0 {
		c.View.TickerN = DefaultTickerN
	}

	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
