package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/scythe504/wordclash-backend/internal/game"
	"github.com/scythe504/wordclash-backend/internal/websocket"
)

// Engine is the part of the game controller the HTTP layer needs.
type Engine interface {
	websocket.Sink
	Stats() game.Stats
}

type Server struct {
	engine Engine
	hub    *websocket.Hub
	log    zerolog.Logger
}

func NewServer(port int, engine Engine, hub *websocket.Hub, log zerolog.Logger) *http.Server {
	s := &Server{
		engine: engine,
		hub:    hub,
		log:    log.With().Str("component", "http").Logger(),
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
