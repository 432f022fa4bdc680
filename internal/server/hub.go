package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// HubConfig holds WebSocket push settings.
type HubConfig struct {
	SendBuffer   int           // Queued boards per subscriber (default: 4)
	WriteTimeout time.Duration // Per-write deadline (default: 5s)
	PingInterval time.Duration // Keepalive pings (default: 30s)
}

// DefaultHubConfig returns sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		SendBuffer:   4,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

// Hub fans boards out to WebSocket subscribers.
type Hub struct {
	cfg    HubConfig
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
}

// subscriber is one connected WebSocket.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewHub creates an empty Hub.
func NewHub(cfg HubConfig, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultHubConfig()
	if cfg.SendBuffer < 1 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}

	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*subscriber]struct{}),
	}
}

// Serve registers conn and blocks until the peer goes away or the hub is
// closed. initial is called under the hub lock so no broadcast can be
// ordered before it.
func (h *Hub) Serve(conn *websocket.Conn, initial func() ([]byte, error)) {
	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return
	}
	data, err := initial()
	if err != nil {
		h.mu.Unlock()
		h.logger.Error("failed to render initial board", "error", err)
		sub.close()
		return
	}
	sub.send <- data
	h.clients[sub] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("websocket subscriber connected", "remote", conn.RemoteAddr().String(), "subscribers", count)

	go h.writeLoop(sub)
	h.readLoop(sub)

	h.remove(sub)
	sub.close()
}

// Broadcast queues data for every subscriber. A subscriber whose queue is
// full misses this board.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.clients {
		select {
		case sub.send <- data:
		default:
			h.logger.Warn("subscriber buffer full, dropping board", "remote", sub.conn.RemoteAddr().String())
		}
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*subscriber, 0, len(h.clients))
	for sub := range h.clients {
		subs = append(subs, sub)
	}
	clear(h.clients)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	delete(h.clients, sub)
	h.mu.Unlock()
}

// readLoop drains inbound frames so control messages are processed. The
// dashboard ignores what clients send.
func (h *Hub) readLoop(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			select {
			case <-sub.done:
			default:
				h.logger.Debug("websocket subscriber disconnected", "remote", sub.conn.RemoteAddr().String(), "error", err)
			}
			return
		}
	}
}

// writeLoop owns all data writes to the connection.
func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sub.done:
			return
		case data := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				sub.close()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := sub.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				h.logger.Debug("failed to send ping", "error", err)
			}
		}
	}
}

// close sends a close frame and tears down the connection. Safe to call
// more than once.
func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
	})
}
