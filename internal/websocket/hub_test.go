package websocket_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/wordclash-backend/internal"
	"github.com/scythe504/wordclash-backend/internal/game"
	"github.com/scythe504/wordclash-backend/internal/websocket"
)

type chanSink chan game.Event

func (s chanSink) Submit(ev game.Event) error {
	s <- ev
	return nil
}

func (s chanSink) next(t *testing.T) game.Event {
	t.Helper()
	select {
	case ev := <-s:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event submitted")
		return game.Event{}
	}
}

func setup(t *testing.T) (*websocket.Hub, chanSink, string) {
	t.Helper()
	hub := websocket.NewHub(zerolog.Nop())
	sink := make(chanSink, 16)
	srv := httptest.NewServer(hub.ServeWS(sink))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, sink, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *gorilla.Conn {
	t.Helper()
	ws, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *gorilla.Conn) internal.Message[json.RawMessage] {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg internal.Message[json.RawMessage]
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestHub_ForwardsFrames(t *testing.T) {
	_, sink, url := setup(t)
	ws := dial(t, url)

	require.NoError(t, ws.WriteMessage(gorilla.TextMessage, []byte(`not json`)))
	require.NoError(t, ws.WriteJSON(map[string]any{"type": "disconnect"}))
	require.NoError(t, ws.WriteJSON(map[string]any{
		"type": internal.TypeCreateRoom,
		"data": map[string]any{"userId": "alice", "rounds": 2},
	}))

	ev := sink.next(t)
	assert.NotEmpty(t, ev.ConnID)
	assert.Equal(t, internal.TypeCreateRoom, ev.Type)
	assert.JSONEq(t, `{"userId":"alice","rounds":2}`, string(ev.Data))
}

func TestHub_EmitAndBroadcast(t *testing.T) {
	hub, sink, url := setup(t)

	a := dial(t, url)
	require.NoError(t, a.WriteJSON(map[string]any{"type": internal.TypeLeaveGame}))
	connA := sink.next(t).ConnID

	b := dial(t, url)
	require.NoError(t, b.WriteJSON(map[string]any{"type": internal.TypeLeaveGame}))
	connB := sink.next(t).ConnID
	require.NotEqual(t, connA, connB)

	hub.Emit(connA, internal.Message[internal.ErrorData]{
		Type: internal.TypeError,
		Data: internal.ErrorData{Message: "Room not found!"},
	})
	got := readMessage(t, a)
	assert.Equal(t, internal.TypeError, got.Type)
	assert.JSONEq(t, `{"message":"Room not found!"}`, string(got.Data))

	hub.Enter(connA, "1234")
	hub.Enter(connB, "1234")
	hub.Broadcast("1234", internal.Message[internal.GameOverData]{
		Type: internal.TypeGameOver,
		Data: internal.GameOverData{Winner: "alice"},
	})
	for _, ws := range []*gorilla.Conn{a, b} {
		got := readMessage(t, ws)
		assert.Equal(t, internal.TypeGameOver, got.Type)
		assert.JSONEq(t, `{"winner":"alice"}`, string(got.Data))
	}

	hub.Dissolve("1234")
	hub.Broadcast("1234", internal.Message[internal.GameOverData]{Type: internal.TypeGameOver})
	hub.Emit(connB, internal.Message[internal.PlayerLeftData]{
		Type: internal.TypePlayerLeft,
		Data: internal.PlayerLeftData{Msg: "Room closed."},
	})
	assert.Equal(t, internal.TypePlayerLeft, readMessage(t, b).Type, "dissolved rooms receive nothing")
}

func TestHub_DisconnectIsReported(t *testing.T) {
	hub, sink, url := setup(t)
	ws := dial(t, url)
	require.NoError(t, ws.WriteJSON(map[string]any{"type": internal.TypeLeaveGame}))
	connID := sink.next(t).ConnID
	assert.Equal(t, 1, hub.Count())

	require.NoError(t, ws.Close())

	ev := sink.next(t)
	assert.Equal(t, game.Event{ConnID: connID, Type: game.TypeDisconnect}, ev)
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	hub.Emit(connID, internal.Message[internal.ErrorData]{Type: internal.TypeError})
}
