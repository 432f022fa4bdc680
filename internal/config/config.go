package config

import "time"

// Config is the root configuration for a dashboard instance.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Poller  PollerConfig  `yaml:"poller"`
	View    ViewConfig    `yaml:"view"`
	Server  ServerConfig  `yaml:"server"`
	Console ConsoleConfig `yaml:"console"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds the upstream price backend settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	CoinsPath  string        `yaml:"coins_path"`
	LegacyPath string        `yaml:"legacy_path"` // Single-coin endpoint, probed at startup
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// PollerConfig holds refresh schedule settings.
type PollerConfig struct {
	Interval       time.Duration `yaml:"interval"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// ViewConfig holds board layout settings.
type ViewConfig struct {
	TopN    int `yaml:"top_n"`    // Opportunity cards
	TickerN int `yaml:"ticker_n"` // Ticker strip entries
}

// ServerConfig holds the HTTP presentation adapter settings.
type ServerConfig struct {
	Enabled     *bool  `yaml:"enabled"` // nil means enabled
	Addr        string `yaml:"addr"`
	MetricsPath string `yaml:"metrics_path"`
}

// IsEnabled reports whether the HTTP server should run.
func (s ServerConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// ConsoleConfig holds the terminal renderer settings.
type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}
