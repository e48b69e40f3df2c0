// Package tracking pushes live order status changes to websocket clients.
package tracking

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"foody/internal/logging"
	"foody/internal/models"
	"foody/internal/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

// Event is the message sent to clients when an order changes
type Event struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
}

// ClientCounter is told when clients connect (+1) and leave (-1)
type ClientCounter interface {
	Add(name string, delta int64)
}

// Hub fans order events out to connected clients. A client that names an
// order only hears about that order; one that does not hears everything.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*client]struct{}
	counter  ClientCounter
	log      zerolog.Logger
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	orderID string
	once    sync.Once
}

// NewHub creates a hub. allowedOrigins of nil or containing "*" accepts
// any origin. counter may be nil.
func NewHub(allowedOrigins []string, counter ClientCounter) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		counter: counter,
		log:     logging.With("tracking"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OrderChanged broadcasts the order's new state
func (h *Hub) OrderChanged(order models.Order) {
	data, err := json.Marshal(Event{Type: "order_status", Order: order})
	if err != nil {
		h.log.Error().Err(err).Str("order_id", order.ID).Msg("failed to encode order event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.orderID != "" && c.orderID != order.ID {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Warn().Str("order_id", order.ID).Msg("tracking buffer full, dropping event")
		}
	}
}

// Handle upgrades the request; ?order=<id> narrows the subscription
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to upgrade tracking connection")
		return
	}

	cl := &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		orderID: c.Query("order"),
	}
	h.register(cl)

	go cl.writePump()
	go cl.readPump()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.counter != nil {
		h.counter.Add(monitoring.TrackingClients, 1)
	}
}

func (h *Hub) unregister(c *client) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, c)
		close(c.send)
		h.mu.Unlock()
		if h.counter != nil {
			h.counter.Add(monitoring.TrackingClients, -1)
		}
	})
}

// readPump drains client messages so pongs and close frames are processed
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn().Err(err).Msg("tracking connection closed")
			}
			return
		}
	}
}

// writePump sends queued events and keeps the connection alive with pings
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
