// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ispadmin-service/internal/domain/dashboard"

	"go.uber.org/zap"
)

// Envelope is the wire frame pushed to dashboard clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// RefreshFunc is invoked when a client explicitly requests a fresh
// snapshot.
type RefreshFunc func()

// Hub tracks connected dashboard clients and fans metrics snapshots out to
// them.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	onRefresh RefreshFunc
	logger    *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// SetRefreshFunc wires the callback for client-initiated refreshes. Call
// before Run.
func (h *Hub) SetRefreshFunc(fn RefreshFunc) {
	h.onRefresh = fn
}

// Register hands a new client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run processes hub events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("dashboard client connected", zap.Int("clients", h.TotalClients()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("dashboard client disconnected", zap.Int("clients", h.TotalClients()))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client: drop the frame rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastMetrics pushes a metrics snapshot to every connected client.
func (h *Hub) BroadcastMetrics(m dashboard.DashboardMetrics) {
	raw, err := json.Marshal(Envelope{Type: "metrics", Data: m})
	if err != nil {
		h.logger.Error("failed to marshal metrics frame", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- raw:
	default:
		h.logger.Warn("broadcast queue full, dropping metrics frame")
	}
}

// TotalClients returns the number of connected clients.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handleClientMessage processes an inbound frame from a client.
func (h *Hub) handleClientMessage(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Debug("ignoring malformed client frame", zap.Error(err))
		return
	}

	if env.Type == "refresh" && h.onRefresh != nil {
		h.onRefresh()
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
