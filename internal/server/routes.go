package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// Response wraps every JSON reply with server-side timing.
type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_start_time"`
	RespEndTime   int64 `json:"resp_end_time"`
	NetRespTime   int64 `json:"net_resp_time"`
	Data          any   `json:"data"`
}

type Health struct {
	Status              string `json:"status"`
	Rooms               int64  `json:"rooms"`
	Connections         int    `json:"connections"`
	EventsHandled       int64  `json:"events_handled"`
	PersistenceFailures int64  `json:"persistence_failures"`
}

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HelloWorldHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/ws", s.hub.ServeWS(s.engine))

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// websocket upgrades skip the preflight handling
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, time.Now(), http.StatusOK, map[string]string{"message": "Hello World"})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats := s.engine.Stats()

	s.writeJSON(w, start, http.StatusOK, Health{
		Status:              "ok",
		Rooms:               stats.Rooms,
		Connections:         s.hub.Count(),
		EventsHandled:       stats.EventsHandled,
		PersistenceFailures: stats.PersistenceFailures,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, start time.Time, status int, data any) {
	end := time.Now()
	resp := Response{
		StatusCode:    status,
		RespStartTime: start.UnixMilli(),
		RespEndTime:   end.UnixMilli(),
		NetRespTime:   end.Sub(start).Milliseconds(),
		Data:          data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}
