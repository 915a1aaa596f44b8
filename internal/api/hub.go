package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/logger"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub is a bus observer that forwards every event to connected websocket
// clients. A client whose write fails is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*websocket.Conn
}

// NewHub creates a new Hub with no clients
func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]*websocket.Conn)}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context()).WithPrefix("hub")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}
	id := h.register(conn)
	log.Info("client connected: id=%s", id)

	// Clients only listen; reading detects the disconnect.
	go func() {
		defer h.unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Debug("client %s gone: %v", id, err)
				return
			}
		}
	}()
}

func (h *Hub) register(conn *websocket.Conn) uuid.UUID {
	id := uuid.New()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	return id
}

func (h *Hub) unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.clients[id]; ok {
		conn.Close()
		delete(h.clients, id)
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleEvent never fails; delivery problems only cost the client its connection.
func (h *Hub) HandleEvent(ctx context.Context, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("hub").Error("failed to encode event %s: %v", e.ID, err)
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.FromContext(ctx).WithPrefix("hub").Warn("dropping client %s: %v", id, err)
			conn.Close()
			delete(h.clients, id)
		}
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.clients, id)
	}
}
