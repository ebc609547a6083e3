package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/wordclash-backend/internal/game"
	"github.com/scythe504/wordclash-backend/internal/websocket"
)

type stubEngine struct{ stats game.Stats }

func (stubEngine) Submit(game.Event) error { return nil }
func (e stubEngine) Stats() game.Stats    { return e.stats }

func newTestServer() *Server {
	return &Server{
		engine: stubEngine{stats: game.Stats{Rooms: 3, EventsHandled: 42, PersistenceFailures: 1}},
		hub:    websocket.NewHub(zerolog.Nop()),
		log:    zerolog.Nop(),
	}
}

func TestHelloWorldHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestServer().RegisterRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		StatusCode int               `json:"status_code"`
		Data       map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello World", resp.Data["message"])
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestServer().RegisterRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	var resp struct {
		Data Health `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, Health{
		Status:              "ok",
		Rooms:               3,
		Connections:         0,
		EventsHandled:       42,
		PersistenceFailures: 1,
	}, resp.Data)
}

func TestCORSPreflight(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestServer().RegisterRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/health", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS, PATCH", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rr.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestServer().RegisterRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rooms-available", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
