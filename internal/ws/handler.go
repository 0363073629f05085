package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/poolroom/internal/game"
	"github.com/playmatatu/poolroom/internal/scene"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

// Scene is what the hub needs from the scene driver.
type Scene interface {
	Submit(cmd scene.Command) error
	Snapshot() *scene.Snapshot
}

// Client represents a connected WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	id        string
	sessionID string
	send      chan []byte
}

// Hub maintains the set of active clients
type Hub struct {
	scene      Scene
	clients    map[string]*Client // client id -> Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(s Scene) *Hub {
	return &Hub{
		scene:      s,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// FrameMessage is pushed to every client after each render tick.
type FrameMessage struct {
	Type   string                `json:"type"`
	Data   *scene.Snapshot       `json:"data"`
	Events []game.CollisionEvent `json:"events"`
}

func newFrameMessage(snap *scene.Snapshot) FrameMessage {
	events := snap.Events
	if events == nil {
		events = []game.CollisionEvent{}
	}
	return FrameMessage{Type: "frame", Data: snap, Events: events}
}

// Run processes registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client %s connected session=%s clients=%d", client.id, client.sessionID, count)

			if snap := h.scene.Snapshot(); snap != nil {
				h.sendTo(client, newFrameMessage(snap))
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.id]; ok && cur == client {
				delete(h.clients, client.id)
				close(client.send)
				log.Printf("[WS] Client %s disconnected clients=%d", client.id, len(h.clients))
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}
	h.broadcastRaw(data)
}

func (h *Hub) broadcastRaw(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full; it will catch up on the next frame
			log.Printf("[WS] Send buffer full for client %s, dropping message", client.id)
		}
	}
}

func (h *Hub) sendTo(client *Client, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if cur, ok := h.clients[client.id]; !ok || cur != client {
		return
	}
	select {
	case client.send <- data:
	default:
		log.Printf("[WS] sendTo dropped message for client %s (buffer full)", client.id)
	}
}

// FrameListener streams every snapshot to all clients. It never blocks the
// scene driver.
func (h *Hub) FrameListener() scene.Listener {
	return func(snap *scene.Snapshot) {
		if h.ClientCount() == 0 {
			return
		}
		h.Broadcast(newFrameMessage(snap))
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel. Best-effort close frame.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for client %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for client %s: %v", c.id, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.hub.sendTo(c, map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
