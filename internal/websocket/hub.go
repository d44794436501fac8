package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/donde/storefront-backend/pkg/logger"
)

const (
	sendBufferSize      = 64
	broadcastBufferSize = 256
)

// Event is the frame pushed to clients.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClientMessage is a frame received from a client.
type ClientMessage struct {
	Type string `json:"type"` // ping
}

// Client is one connected storefront or admin tab.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *Conn
	Send chan []byte

	rateMu        sync.Mutex
	messageCount  int
	lastResetTime time.Time
}

// NewClient creates a client with a buffered send queue.
func NewClient(id string, hub *Hub, conn *Conn) *Client {
	return &Client{ID: id, Hub: hub, Conn: conn, Send: make(chan []byte, sendBufferSize)}
}

// Hub fans branding events out to every connected client.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	// done is closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, broadcastBufferSize),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			close(h.done)
			for c := range h.clients {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", logger.Fields{
				"client_id":     c.ID,
				"total_clients": total,
			})

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", logger.Fields{
				"client_id":     c.ID,
				"total_clients": total,
			})

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					// slow consumer; drop it rather than block everyone
					go h.Unregister(c)
					logger.Warn("Client send buffer full, disconnecting", logger.Fields{
						"client_id": c.ID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues an event for every client. A full queue drops the event.
func (h *Hub) Broadcast(eventType string, payload interface{}) error {
	data, err := encodeEvent(eventType, payload)
	if err != nil {
		logger.Error("Failed to marshal event", err, logger.Fields{"type": eventType})
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", logger.Fields{"type": eventType})
	}
	return nil
}

// SendTo queues an event for a single client.
func (h *Hub) SendTo(c *Client, eventType string, payload interface{}) error {
	data, err := encodeEvent(eventType, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return nil
	}
	select {
	case c.Send <- data:
	default:
		logger.Warn("Client send buffer full, event dropped", logger.Fields{"client_id": c.ID})
	}
	return nil
}

// Prime queues an event on a client that is not registered yet, so that it
// is the first frame the client sees.
func (h *Hub) Prime(c *Client, eventType string, payload interface{}) error {
	data, err := encodeEvent(eventType, payload)
	if err != nil {
		return err
	}
	select {
	case c.Send <- data:
	default:
	}
	return nil
}

// Register adds c to the hub. Once the hub has stopped, c.Send is closed
// instead so the client's write pump exits.
func (h *Hub) Register(c *Client) {
	select {
	case <-h.done:
		close(c.Send)
		return
	default:
	}

	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

// Unregister removes c from the hub. It returns at once after the hub has
// stopped, which already closed every client.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleClientMessage answers pings; everything else is ignored.
func (h *Hub) HandleClientMessage(c *Client, message []byte) {
	c.rateMu.Lock()
	now := time.Now()
	if now.Sub(c.lastResetTime) >= time.Second {
		c.messageCount = 0
		c.lastResetTime = now
	}
	c.messageCount++
	count := c.messageCount
	c.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", logger.Fields{
			"client_id": c.ID,
			"count":     count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Debug("Ignoring malformed client message", logger.Fields{
			"client_id": c.ID,
			"error":     err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		if err := h.SendTo(c, "pong", nil); err != nil {
			logger.Error("Failed to send pong", err, logger.Fields{"client_id": c.ID})
		}
	}
}

func encodeEvent(eventType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Event{Type: eventType, Data: payload, Timestamp: time.Now().UTC()})
}
