package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/arbwatch/internal/poller"
	"github.com/rickgao/arbwatch/internal/version"
	"github.com/rickgao/arbwatch/internal/view"
)

// Controller is the part of the poller the server drives.
type Controller interface {
	State() poller.State
	Retry()
}

// Config holds server configuration.
type Config struct {
	Addr            string
	MetricsPath     string // Ignored when no metrics handler is given
	Layout          Layout
	Hub             HubConfig
	ShutdownTimeout time.Duration // default: 5s
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":3000",
		MetricsPath:     "/metrics",
		Layout:          DefaultLayout(),
		Hub:             DefaultHubConfig(),
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server serves the dashboard. It implements poller.StateHandler so every
// applied state is pushed to WebSocket subscribers.
type Server struct {
	cfg      Config
	ctrl     Controller
	metrics  http.Handler
	logger   *slog.Logger
	hub      *Hub
	upgrader websocket.Upgrader
}

// New creates a Server. metrics may be nil.
func New(cfg Config, ctrl Controller, metrics http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = def.MetricsPath
	}
	if cfg.Layout.TopN <= 0 {
		cfg.Layout.TopN = def.Layout.TopN
	}
	if cfg.Layout.TickerN <= 0 {
		cfg.Layout.TickerN = def.Layout.TickerN
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	return &Server{
		cfg:     cfg,
		ctrl:    ctrl,
		metrics: metrics,
		logger:  logger,
		hub:     NewHub(cfg.Hub, logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/board", s.handleBoard)
	mux.HandleFunc("POST /api/retry", s.handleRetry)
	mux.HandleFunc("GET /ws", s.handleWS)
	if s.metrics != nil {
		mux.Handle("GET "+s.cfg.MetricsPath, s.metrics)
	}
	return mux
}

// HandleState pushes the default board for st to every subscriber.
func (s *Server) HandleState(st poller.State) {
	data, err := s.encodeBoard(st)
	if err != nil {
		s.logger.Error("failed to render board", "error", err)
		return
	}
	s.hub.Broadcast(data)
}

// Run serves on cfg.Addr until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown.
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) encodeBoard(st poller.State) ([]byte, error) {
	return json.Marshal(BuildBoard(st, view.ModeAll, "", s.cfg.Layout))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.ctrl.State()

	health := struct {
		Status     string         `json:"status"`
		Version    version.Info   `json:"version"`
		Components map[string]any `json:"components"`
	}{
		Status:  st.Status.String(),
		Version: version.Current(),
		Components: map[string]any{
			"refresh":   NewStateView(st),
			"websocket": map[string]int{"subscribers": s.hub.Len()},
		},
	}

	code := http.StatusOK
	if st.Status == poller.StatusFailed {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewStateView(s.ctrl.State()))
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := view.ParseMode(q.Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, BuildBoard(s.ctrl.State(), mode, q.Get("q"), s.cfg.Layout))
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Retry()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	s.hub.Serve(conn, func() ([]byte, error) {
		return s.encodeBoard(s.ctrl.State())
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
