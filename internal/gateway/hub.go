package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"btcsignal-go/internal/metrics"
	"btcsignal-go/internal/model"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Hub fans published dashboards out to every connected websocket client.
// A client that cannot keep up is dropped instead of blocking the pipeline.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	latest  []byte
	metrics *metrics.Metrics
}

// Client represents a single websocket peer
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// envelope is the frame pushed to browsers
type envelope struct {
	Type string           `json:"type"`
	Data *model.Dashboard `json:"data"`
	TS   time.Time        `json:"ts"`
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		metrics: m,
	}
}

// Publish encodes the dashboard once and queues it for every client
func (h *Hub) Publish(d *model.Dashboard) {
	if d == nil {
		return
	}
	payload, err := json.Marshal(envelope{Type: "dashboard", Data: d, TS: d.UpdatedAt})
	if err != nil {
		log.Printf("⚠️  [Gateway] Failed to encode dashboard: %v", err)
		return
	}

	h.mu.Lock()
	h.latest = payload
	var slow []*Client
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		log.Println("⚠️  [Gateway] Dropping slow websocket client")
		h.RemoveClient(c)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Attach registers a new connection, sends it the latest dashboard and
// starts its pumps
func (h *Hub) Attach(conn *websocket.Conn) {
	c := &Client{conn: conn, send: make(chan []byte, sendBuffer), hub: h}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.WSClients.Set(float64(count))
	log.Printf("🔌 [Gateway] ws client connected (%d total)", count)

	go c.writePump()
	go c.readPump()
}

// RemoveClient unregisters a client and closes its send queue
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.WSClients.Set(float64(count))
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.RemoveClient(c)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only keeps the connection alive; clients never send commands
func (c *Client) readPump() {
	defer func() {
		c.hub.RemoveClient(c)
		c.conn.Close()
		log.Println("🔌 [Gateway] ws client disconnected")
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
