// Package stream serves read-only simulation snapshots over websockets.
// Viewers subscribe and receive one JSON snapshot per broadcast; nothing
// flows back into the simulation.
package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Pursuit-Sense/internal/sim"
	"github.com/Garsondee/Pursuit-Sense/pkg/logger"
)

const writeWait = 10 * time.Second

// Hub fans simulation snapshots out to connected websocket subscribers.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*websocket.Conn]struct{}
	upgrader    websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			// Local tooling feed; any origin may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and registers the connection. Reads are
// drained and discarded so close frames are processed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.subscribers[conn] = struct{}{}
	n := len(h.subscribers)
	h.mu.Unlock()
	logger.Log.WithField("subscribers", n).Info("viewer connected")

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a snapshot to every subscriber, dropping any connection
// that fails to accept it in time.
func (h *Hub) Broadcast(snap sim.Snapshot) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subscribers))
	for c := range h.subscribers {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(snap); err != nil {
			h.drop(c)
		}
	}
}

// SubscriberCount returns the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.subscribers[conn]
	delete(h.subscribers, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
		logger.Log.Info("viewer disconnected")
	}
}
