package main

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"riftrecap/internal/task"
)

// broadcastBuffer bounds the event backlog before broadcasts are dropped.
const broadcastBuffer = 64

// statusHub broadcasts finished task metrics to every connected websocket
// client. Slow or dead clients are dropped rather than blocking a broadcast.
// All writes flow through a single pump goroutine; gorilla/websocket permits
// only one concurrent writer per connection, and workers finish concurrently.
type statusHub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	events chan task.Metrics
	quit   chan struct{}

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newStatusHub(logger *zap.Logger) *statusHub {
	h := &statusHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboards connect from anywhere; the feed is read-only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		events:  make(chan task.Metrics, broadcastBuffer),
		quit:    make(chan struct{}),
		clients: make(map[*websocket.Conn]struct{}),
	}
	go h.pump()
	return h
}

// handleWS upgrades the connection and parks it until the peer disconnects.
func (h *statusHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("status client connected", zap.Int("clients", count))

	// Drain reads so pings and close frames are processed.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast hands one metrics object to the pump. Safe to call from any
// goroutine; a full backlog drops the event rather than blocking a worker.
func (h *statusHub) broadcast(m task.Metrics) {
	select {
	case h.events <- m:
	case <-h.quit:
	default:
		h.logger.Debug("status broadcast dropped, backlog full",
			zap.String("match_id", m.MatchID))
	}
}

// pump is the sole writer. It runs until closeAll.
func (h *statusHub) pump() {
	for {
		select {
		case <-h.quit:
			return
		case m := <-h.events:
			h.writeAll(m)
		}
	}
}

func (h *statusHub) writeAll(m task.Metrics) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(m); err != nil {
			h.drop(c)
		}
	}
}

func (h *statusHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// closeAll stops the pump and terminates every client connection during
// shutdown. Call once.
func (h *statusHub) closeAll() {
	close(h.quit)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
}
