package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"photoevent/pkg/logger"
)

// Manager is the global connection manager. Clients subscribe to one
// event; broadcasts fan out to every connection watching that event.
var Manager = NewConnectionManager()

// Message is the wire format pushed to clients.
type Message struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

type client struct {
	conn    *websocket.Conn
	eventID uuid.UUID
	send    chan []byte
}

// ConnectionManager tracks live websocket connections grouped by event.
type ConnectionManager struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	events  map[uuid.UUID]map[*websocket.Conn]*client
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[*websocket.Conn]*client),
		events:  make(map[uuid.UUID]map[*websocket.Conn]*client),
	}
}

// RegisterClient adds a connection subscribed to an event and starts its
// writer goroutine. The per-connection send channel decouples slow
// clients from broadcasters.
func (m *ConnectionManager) RegisterClient(conn *websocket.Conn, eventID uuid.UUID) {
	c := &client{
		conn:    conn,
		eventID: eventID,
		send:    make(chan []byte, 16),
	}

	m.mu.Lock()
	m.clients[conn] = c
	if m.events[eventID] == nil {
		m.events[eventID] = make(map[*websocket.Conn]*client)
	}
	m.events[eventID][conn] = c
	m.mu.Unlock()

	go c.writeLoop()

	logger.Info(logger.CategoryAPI, "ws_register", "WebSocket client registered", map[string]interface{}{
		"event_id": eventID.String(),
	})
}

// UnregisterClient removes a connection and stops its writer.
func (m *ConnectionManager) UnregisterClient(conn *websocket.Conn) {
	m.mu.Lock()
	c, ok := m.clients[conn]
	if ok {
		delete(m.clients, conn)
		if room := m.events[c.eventID]; room != nil {
			delete(room, conn)
			if len(room) == 0 {
				delete(m.events, c.eventID)
			}
		}
	}
	m.mu.Unlock()

	if ok {
		close(c.send)
	}
}

// BroadcastToEvent sends a message to every connection watching an event.
// Clients whose buffers are full are dropped rather than blocked on.
func (m *ConnectionManager) BroadcastToEvent(eventID uuid.UUID, messageType string, data map[string]interface{}) {
	msg := Message{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	m.mu.RLock()
	room := m.events[eventID]
	targets := make([]*client, 0, len(room))
	for _, c := range room {
		targets = append(targets, c)
	}
	m.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- payload:
		default:
			// Buffer full; the client is too slow to keep up.
		}
	}
}

// ClientCount returns the number of live connections for an event.
func (m *ConnectionManager) ClientCount(eventID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events[eventID])
}

func (c *client) writeLoop() {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
