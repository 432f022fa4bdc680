package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/arbwatch/internal/model"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("http://localhost:8080/")

		if c.baseURL != "http://localhost:8080" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "http://localhost:8080")
		}
		if c.coinsPath != DefaultCoinsPath || c.legacyPath != DefaultLegacyPath {
			t.Errorf("paths = %q, %q", c.coinsPath, c.legacyPath)
		}
		if c.httpClient.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 10*time.Second)
		}
		if c.maxRetries != 0 {
			t.Errorf("maxRetries = %d, want 0", c.maxRetries)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with multiple options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("http://example.com",
			WithTimeout(15*time.Second),
			WithRetries(2, 500*time.Millisecond),
			WithLogger(logger),
			WithPaths("/v2/coins", ""),
		)
		if c.httpClient.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 15*time.Second)
		}
		if c.maxRetries != 2 || c.retryBackoff != 500*time.Millisecond {
			t.Errorf("retries = %d/%v", c.maxRetries, c.retryBackoff)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
		if c.coinsPath != "/v2/coins" || c.legacyPath != DefaultLegacyPath {
			t.Errorf("paths = %q, %q", c.coinsPath, c.legacyPath)
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 3 * time.Second}
		c := NewClient("http://example.com", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{StatusCode: 503, Message: "Service Unavailable"}
		expected := "upstream api error 503: Service Unavailable"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
		if !errors.Is(err, ErrResponse) {
			t.Error("errors.Is(err, ErrResponse) = false")
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{500, true},
			{503, true},
			{429, true},
			{400, false},
			{404, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.expected {
				t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.expected)
			}
		}
	})

	t.Run("upstream envelope message", func(t *testing.T) {
		err := newAPIError(503, []byte(`{"hata": true, "mesaj": "Binance API hata kodu: 418"}`))
		if err.Message != "Binance API hata kodu: 418" {
			t.Errorf("Message = %q", err.Message)
		}
	})

	t.Run("plain body falls back to status text", func(t *testing.T) {
		err := newAPIError(502, []byte(`bad gateway`))
		if err.Message != "Bad Gateway" {
			t.Errorf("Message = %q, want %q", err.Message, "Bad Gateway")
		}
	})
}

func TestDoRequest(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			if !strings.HasPrefix(r.Header.Get("User-Agent"), "arbwatch/") {
				t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
			}
			w.Write([]byte(`{"status": "ok"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		body, err := c.doRequest(context.Background(), "/test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"status": "ok"}` {
			t.Errorf("body = %q, want %q", string(body), `{"status": "ok"}`)
		}
	})

	t.Run("non-success status returns APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"hata": true, "mesaj": "down"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.doRequest(context.Background(), "/test")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != 503 {
			t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, 503)
		}
		if Kind(err) != KindResponse {
			t.Errorf("Kind = %q, want %q", Kind(err), KindResponse)
		}
	})

	t.Run("unreachable host is a network failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		c := NewClient(url)
		_, err := c.doRequest(context.Background(), "/test")
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("error = %v, want ErrNetwork", err)
		}
		if Kind(err) != KindNetwork {
			t.Errorf("Kind = %q, want %q", Kind(err), KindNetwork)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		c := NewClient(server.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.doRequest(ctx, "/test")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error should wrap context.Canceled, got %v", err)
		}
	})
}

func TestDoWithRetry(t *testing.T) {
	t.Run("no retries by default", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.doWithRetry(context.Background(), "/test")
		if !errors.Is(err, ErrResponse) {
			t.Fatalf("error = %v, want ErrResponse", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("retries on 5xx and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		body, err := c.doWithRetry(context.Background(), "/test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"ok": true}` {
			t.Errorf("body = %q", string(body))
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("does not retry on 4xx", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		if _, err := c.doWithRetry(context.Background(), "/test"); err == nil {
			t.Fatal("expected error, got nil")
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(2, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), "/test")
		if err == nil || !strings.Contains(err.Error(), "max retries exceeded") {
			t.Fatalf("error = %v, want max retries exceeded", err)
		}
		if !errors.Is(err, ErrResponse) {
			t.Error("wrapped error should still match ErrResponse")
		}
		// 1 initial + 2 retries = 3 attempts
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})
}

const coinsBody = `{
	"firsatlar": [
		{"symbol": "BTC", "binance_fiyat": 43000.5, "gateio_fiyat": 43520.1, "fark_yuzde": 1.2,
		 "ucuz_borsa": "Binance", "pahali_borsa": "Gate.io", "arbitraj_firsati": true},
		{"symbol": "ETH", "binance_fiyat": 2300, "gateio_fiyat": 2281.6, "fark_yuzde": 0.8,
		 "ucuz_borsa": "Gate.io", "pahali_borsa": "Binance", "arbitraj_firsati": true}
	],
	"tum_coinler": [
		{"symbol": "BTC", "binance_fiyat": 43000.5, "gateio_fiyat": 43520.1, "fark_yuzde": 1.2,
		 "ucuz_borsa": "Binance", "pahali_borsa": "Gate.io", "arbitraj_firsati": true},
		{"symbol": "ETH", "binance_fiyat": 2300, "gateio_fiyat": 2281.6, "fark_yuzde": 0.8,
		 "ucuz_borsa": "Gate.io", "pahali_borsa": "Binance", "arbitraj_firsati": true},
		{"symbol": "DOGE", "binance_fiyat": 0.08, "gateio_fiyat": 0.0801, "fark_yuzde": 0.12,
		 "ucuz_borsa": "Binance", "pahali_borsa": "Gate.io", "arbitraj_firsati": false}
	],
	"guncelleme_zamani": "14:03:22"
}`

func TestFetchSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins" {
			t.Errorf("path = %q, want /coins", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(coinsBody))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	s, err := c.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot failed: %v", err)
	}

	if s.NumOpportunities() != 2 || s.NumQuotes() != 3 {
		t.Errorf("counts = %d/%d, want 2/3", s.NumOpportunities(), s.NumQuotes())
	}
	if s.UpdatedAt() != "14:03:22" {
		t.Errorf("UpdatedAt = %q", s.UpdatedAt())
	}

	eth := s.Opportunities()[1]
	want := model.CoinQuote{
		Symbol:       "ETH",
		BinancePrice: 2300,
		GateIOPrice:  2281.6,
		Spread:       0.8,
		Cheaper:      model.ExchangeGateIO,
		Pricier:      model.ExchangeBinance,
		Opportunity:  true,
	}
	if eth != want {
		t.Errorf("ETH = %+v, want %+v", eth, want)
	}
}

func TestFetchSnapshot_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind FailureKind
	}{
		{"service unavailable", 503, `{"hata": true, "mesaj": "Gate.io API'ye bağlanılamadı"}`, KindResponse},
		{"not found", 404, `not found`, KindResponse},
		{"not json", 200, `<html>`, KindShape},
		{"top level array", 200, `[]`, KindShape},
		{"missing firsatlar", 200, `{"tum_coinler": [], "guncelleme_zamani": "x"}`, KindShape},
		{"missing timestamp", 200, `{"firsatlar": [], "tum_coinler": []}`, KindShape},
		{"wrong type", 200, `{"firsatlar": 5, "tum_coinler": [], "guncelleme_zamani": "x"}`, KindShape},
		{"string price", 200, `{"firsatlar": [], "tum_coinler": [{"symbol": "BTC", "binance_fiyat": "1"}], "guncelleme_zamani": "x"}`, KindShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.URL)
			s, err := c.FetchSnapshot(context.Background())
			if err == nil {
				t.Fatalf("expected error, got snapshot %v", s.ID())
			}
			if s != nil {
				t.Error("snapshot should be nil on failure")
			}
			if got := Kind(err); got != tt.wantKind {
				t.Errorf("Kind = %q, want %q (err: %v)", got, tt.wantKind, err)
			}
		})
	}
}

func TestGetLegacyQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fiyatlar" {
			t.Errorf("path = %q, want /fiyatlar", r.URL.Path)
		}
		w.Write([]byte(`{"binance_fiyat": 43000, "gateio_fiyat": 43100, "fark_yuzde": 0.23,
			"ucuz_borsa": "Binance", "pahali_borsa": "Gate.io", "arbitraj_firsati": false}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	q, err := c.GetLegacyQuote(context.Background())
	if err != nil {
		t.Fatalf("GetLegacyQuote failed: %v", err)
	}
	if q.Symbol != "BTC" || q.Spread != 0.23 || q.Opportunity {
		t.Errorf("quote = %+v", q)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, KindNone},
		{"shape", &model.ValidationError{Field: "x", Reason: "y"}, KindShape},
		{"response", &APIError{StatusCode: 500}, KindResponse},
		{"network", ErrNetwork, KindNetwork},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
