package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rickgao/arbwatch/internal/version"
)

// Default endpoint paths.
const (
	DefaultCoinsPath  = "/coins"
	DefaultLegacyPath = "/fiyatlar"
)

// Client provides access to the upstream comparison service.
type Client struct {
	baseURL    string
	coinsPath  string
	legacyPath string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new client. Retries are off by default: the poller
// already re-fetches on a fixed cadence.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		coinsPath:  DefaultCoinsPath,
		legacyPath: DefaultLegacyPath,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   0,
		retryBackoff: 250 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPaths overrides the snapshot and legacy endpoint paths. Empty
// values keep the defaults.
func WithPaths(coins, legacy string) ClientOption {
	return func(c *Client) {
		if coins != "" {
			c.coinsPath = coins
		}
		if legacy != "" {
			c.legacyPath = legacy
		}
	}
}

func userAgent() string {
	return "arbwatch/" + version.Version
}
