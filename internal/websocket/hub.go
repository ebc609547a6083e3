// Package websocket carries game frames between browsers and the controller.
// Each connection gets a random id, a read pump that forwards frames to the
// controller, and a write pump that drains a buffered send queue.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/scythe504/wordclash-backend/internal/game"
)

const sendBufferSize = 256

// Sink receives inbound events. *game.Controller is the production sink.
type Sink interface {
	Submit(ev game.Event) error
}

// Hub tracks open connections and the room groups they entered. It
// implements game.Transport.
type Hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu     sync.RWMutex
	conns  map[string]*Conn
	groups map[string]map[string]struct{}
	closed bool
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log:    log.With().Str("component", "ws_hub").Logger(),
		conns:  make(map[string]*Conn),
		groups: make(map[string]map[string]struct{}),
	}
}

// ServeWS upgrades the request and starts the pumps for a new connection.
func (h *Hub) ServeWS(sink Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("upgrade failed")
			return
		}

		c := &Conn{
			id:   uuid.NewString(),
			ws:   ws,
			send: make(chan []byte, sendBufferSize),
			hub:  h,
		}
		if !h.register(c) {
			_ = ws.Close()
			return
		}
		h.log.Info().Str("conn_id", c.id).Str("remote", r.RemoteAddr).Msg("connection opened")

		go c.writePump()
		go c.readPump(sink)
	}
}

func (h *Hub) register(c *Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[c.id] = c
	return true
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[c.id] != c {
		return
	}
	delete(h.conns, c.id)
	for roomID, members := range h.groups {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.groups, roomID)
		}
	}
	c.closeSend()
}

func (h *Hub) Enter(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[connID]; !ok {
		return
	}
	members, ok := h.groups[roomID]
	if !ok {
		members = make(map[string]struct{})
		h.groups[roomID] = members
	}
	members[connID] = struct{}{}
}

func (h *Hub) Dissolve(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.groups, roomID)
}

func (h *Hub) Emit(connID string, msg any) {
	data, ok := h.encode(msg)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.conns[connID]; ok {
		h.enqueue(c, data)
	}
}

func (h *Hub) Broadcast(roomID string, msg any) {
	data, ok := h.encode(msg)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for connID := range h.groups[roomID] {
		if c, ok := h.conns[connID]; ok {
			h.enqueue(c, data)
		}
	}
}

// Count reports the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close stops accepting connections and closes the open ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.conns {
		c.closeSend()
		_ = c.ws.Close()
		delete(h.conns, id)
	}
	h.groups = make(map[string]map[string]struct{})
	h.log.Info().Msg("hub closed")
}

func (h *Hub) encode(msg any) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("encode outbound message")
		return nil, false
	}
	return data, true
}

// enqueue must run with h.mu held so the send channel cannot be closed
// underneath it.
func (h *Hub) enqueue(c *Conn, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn().Str("conn_id", c.id).Msg("send buffer full, dropping message")
	}
}
