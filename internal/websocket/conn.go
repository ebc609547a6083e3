package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scythe504/wordclash-backend/internal"
	"github.com/scythe504/wordclash-backend/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
)

// Conn is one browser connection.
type Conn struct {
	id        string
	ws        *websocket.Conn
	send      chan []byte
	hub       *Hub
	closeOnce sync.Once
}

func (c *Conn) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// readPump forwards frames until the connection fails, then reports the
// disconnect before unregistering.
func (c *Conn) readPump(sink Sink) {
	log := c.hub.log.With().Str("conn_id", c.id).Logger()
	defer func() {
		if err := sink.Submit(game.Event{ConnID: c.id, Type: game.TypeDisconnect}); err != nil {
			log.Debug().Err(err).Msg("disconnect not delivered")
		}
		c.hub.unregister(c)
		_ = c.ws.Close()
		log.Info().Msg("connection closed")
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("read failed")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		var msg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warn().Err(err).Msg("failed to parse frame")
			continue
		}
		if msg.Type == "" || msg.Type == game.TypeDisconnect {
			log.Warn().Str("type", msg.Type).Msg("rejected frame type")
			continue
		}
		log.Debug().Str("type", msg.Type).Msg("frame received")

		err = sink.Submit(game.Event{ConnID: c.id, Type: msg.Type, Data: msg.Data})
		if errors.Is(err, game.ErrStopped) {
			return
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
