package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/wordclash-backend/internal"
)

type mapLoader struct {
	rooms map[string]*internal.Room
	calls int
}

func (m *mapLoader) Load(_ context.Context, roomID string) (*internal.Room, bool) {
	m.calls++
	r, ok := m.rooms[roomID]
	return r, ok
}

func TestRegistry_InsertIndexesPlayers(t *testing.T) {
	reg := NewRegistry(nil)
	room := internal.NewRoom("1000", "alice", "conn-a", 1, internal.RoundState{})
	room.AddPlayer("bob", "conn-b")

	reg.Insert(room)

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"1000"}, reg.RoomsForConnection("conn-a"))
	assert.Equal(t, []string{"1000"}, reg.RoomsForConnection("conn-b"))

	reg.Delete("1000")
	assert.False(t, reg.Has("1000"))
	assert.Empty(t, reg.RoomsForConnection("conn-a"))
	assert.Empty(t, reg.RoomsForConnection("conn-b"))
	reg.Delete("1000")
}

func TestRegistry_ConnectionIndex(t *testing.T) {
	reg := NewRegistry(nil)
	reg.BindConnection("conn-a", "2000")
	reg.BindConnection("conn-a", "1000")
	reg.BindConnection("conn-a", "1000")

	assert.Equal(t, []string{"1000", "2000"}, reg.RoomsForConnection("conn-a"))

	reg.UnbindConnection("conn-a", "2000")
	assert.Equal(t, []string{"1000"}, reg.RoomsForConnection("conn-a"))

	reg.ForgetConnection("conn-a")
	assert.Empty(t, reg.RoomsForConnection("conn-a"))
	reg.UnbindConnection("conn-x", "1000")
}

func TestRegistry_Hydrate(t *testing.T) {
	stored := internal.NewRoom("3000", "alice", "conn-a", 1, internal.RoundState{})
	loader := &mapLoader{rooms: map[string]*internal.Room{"3000": stored}}
	reg := NewRegistry(loader)
	ctx := context.Background()

	_, ok := reg.Hydrate(ctx, "4000")
	assert.False(t, ok)
	assert.Zero(t, reg.Len())

	room, ok := reg.Hydrate(ctx, "3000")
	require.True(t, ok)
	assert.Same(t, stored, room)
	assert.True(t, reg.Has("3000"))
	assert.Equal(t, []string{"3000"}, reg.RoomsForConnection("conn-a"))

	_, ok = reg.Hydrate(ctx, "3000")
	assert.True(t, ok)
	assert.Equal(t, 2, loader.calls, "resident rooms are not reloaded")
}
