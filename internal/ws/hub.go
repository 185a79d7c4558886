package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Event is what every connected client receives on a broadcast.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type client struct {
	conn *websocket.Conn

	// writeMu serializes writes to the socket; WriteJSON is not safe for
	// concurrent use.
	writeMu sync.Mutex
}

// Hub keeps the set of connected websocket clients and fans events out to
// all of them. That is the whole contract: no rooms, no acks, no replay.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Serve upgrades the request and parks it in the hub until the peer goes
// away. Inbound messages are read and discarded; the socket only exists to
// receive notifications.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	id := uuid.NewString()
	cl := &client{conn: conn}

	h.mu.Lock()
	h.clients[id] = cl
	h.mu.Unlock()
	log.Printf("[WS] Client connected id=%s", id)

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	stop := make(chan struct{})
	go h.keepAlive(cl, stop)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(stop)
	h.remove(id)
	log.Printf("[WS] Client disconnected id=%s", id)
}

// Broadcast sends the event to every connected client. Clients that fail the
// write are dropped; a stuck consumer must not stall the rest.
func (h *Hub) Broadcast(event string, data any) {
	h.mu.RLock()
	snapshot := make(map[string]*client, len(h.clients))
	for id, cl := range h.clients {
		snapshot[id] = cl
	}
	h.mu.RUnlock()

	msg := Event{Event: event, Data: data}
	for id, cl := range snapshot {
		if err := cl.write(msg); err != nil {
			log.Printf("[WS] Dropping client id=%s: %v", id, err)
			h.remove(id)
		}
	}
}

// Close disconnects every client, for process shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, cl := range h.clients {
		cl.conn.Close()
		delete(h.clients, id)
	}
}

func (h *Hub) keepAlive(cl *client, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cl.writeMu.Lock()
			cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := cl.conn.WriteMessage(websocket.PingMessage, nil)
			cl.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cl, ok := h.clients[id]; ok {
		cl.conn.Close()
		delete(h.clients, id)
	}
}

func (c *client) write(msg Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}
