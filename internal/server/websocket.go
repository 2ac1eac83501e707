package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

const (
	// publishBuffer is how many messages may wait for the hub before new
	// ones are dropped.
	publishBuffer = 256
	writeWait     = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev tool.
	},
}

// MessageType tags websocket messages.
type MessageType string

const (
	MessageEvent MessageType = "event"
)

// Message is one websocket frame sent to dashboard clients.
type Message struct {
	Type  MessageType      `json:"type"`
	Event timestep.Payload `json:"event"`
	Time  time.Time        `json:"time"`
}

// Hub manages WebSocket clients and broadcasts clock events.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	queue   chan Message
	log     *slog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		queue:   make(chan Message, publishBuffer),
		log:     slog.Default().With("component", "hub"),
	}
}

// HandleWebSocket upgrades the HTTP connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Read loop keeps the connection alive and notices disconnects.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Publish queues msg for broadcast without blocking. It reports false when
// the queue is full and the message was dropped.
func (h *Hub) Publish(msg Message) bool {
	select {
	case h.queue <- msg:
		return true
	default:
		return false
	}
}

// Run broadcasts published messages until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.queue:
			h.Broadcast(msg)
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("websocket marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("websocket write failed", "error", err)
			conn.Close()
			// Don't delete during iteration; the read goroutine will clean up.
		}
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
