package game

import (
	"context"
	"slices"

	"github.com/scythe504/wordclash-backend/internal"
)

// Loader restores a room that is not resident in memory.
type Loader interface {
	Load(ctx context.Context, roomID string) (*internal.Room, bool)
}

// Registry owns every resident room and remembers which rooms each
// connection joined, so a disconnect does not have to scan all rooms.
// It is not safe for concurrent use; only the controller goroutine touches it.
type Registry struct {
	rooms  map[string]*internal.Room
	byConn map[string]map[string]struct{}
	loader Loader
}

func NewRegistry(loader Loader) *Registry {
	return &Registry{
		rooms:  make(map[string]*internal.Room),
		byConn: make(map[string]map[string]struct{}),
		loader: loader,
	}
}

func (r *Registry) Len() int { return len(r.rooms) }

func (r *Registry) Has(roomID string) bool {
	_, ok := r.rooms[roomID]
	return ok
}

func (r *Registry) Get(roomID string) (*internal.Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// Insert stores room, replacing any resident room with the same id, and
// indexes the connections of its players.
func (r *Registry) Insert(room *internal.Room) {
	r.rooms[room.Id] = room
	for _, conn := range room.Connections() {
		r.BindConnection(conn, room.Id)
	}
}

// Delete drops the room and every index entry pointing at it.
func (r *Registry) Delete(roomID string) {
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(r.rooms, roomID)
	for _, conn := range room.Connections() {
		r.UnbindConnection(conn, roomID)
	}
	r.UnbindConnection(room.CreatorConnection, roomID)
}

// Hydrate returns the resident room, or loads it from the durable store and
// makes it resident.
func (r *Registry) Hydrate(ctx context.Context, roomID string) (*internal.Room, bool) {
	if room, ok := r.rooms[roomID]; ok {
		return room, true
	}
	if r.loader == nil {
		return nil, false
	}
	room, ok := r.loader.Load(ctx, roomID)
	if !ok {
		return nil, false
	}
	r.Insert(room)
	return room, true
}

func (r *Registry) BindConnection(connID, roomID string) {
	rooms, ok := r.byConn[connID]
	if !ok {
		rooms = make(map[string]struct{})
		r.byConn[connID] = rooms
	}
	rooms[roomID] = struct{}{}
}

func (r *Registry) UnbindConnection(connID, roomID string) {
	rooms, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(rooms, roomID)
	if len(rooms) == 0 {
		delete(r.byConn, connID)
	}
}

// ForgetConnection removes connID from the index entirely.
func (r *Registry) ForgetConnection(connID string) {
	delete(r.byConn, connID)
}

// RoomsForConnection lists, in sorted order, the rooms connID joined.
func (r *Registry) RoomsForConnection(connID string) []string {
	ids := make([]string, 0, len(r.byConn[connID]))
	for id := range r.byConn[connID] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
