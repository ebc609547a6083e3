package game

import (
	"context"

	"github.com/scythe504/wordclash-backend/internal"
	"github.com/scythe504/wordclash-backend/internal/events"
)

func (c *Controller) handleCreateRoom(ctx context.Context, connID string, data internal.CreateRoomData) {
	userID := userOrAnon(data.UserID, connID)
	rounds := c.clampRounds(int(data.Rounds))

	room := internal.NewRoom(c.newRoomID(), userID, connID, rounds, c.rounds.NewRound(ctx))
	c.registry.Insert(room)
	c.transport.Enter(connID, room.Id)
	c.persist.Save(ctx, room)

	c.log.Info().
		Str("room_id", room.Id).
		Str("user_id", userID).
		Int("total_rounds", rounds).
		Str("theme", room.Theme).
		Msg("room created")

	c.transport.Emit(connID, internal.Message[internal.RoomCreatedData]{
		Type: internal.TypeRoomCreated,
		Data: internal.RoomCreatedData{RoomID: room.Id, Theme: room.Theme},
	})
	c.publish(ctx, events.RoomEvent{
		Type:   events.RoomCreated,
		RoomID: room.Id,
		Round:  room.CurrentRound,
		Theme:  room.Theme,
	})
}

// handleJoinRoom admits a second player, or re-admits a known one, and sends
// everyone in the room the current round.
func (c *Controller) handleJoinRoom(ctx context.Context, connID string, data internal.JoinRoomData) {
	roomID := string(data.RoomID)
	userID := userOrAnon(data.UserID, connID)

	room, ok := c.registry.Hydrate(ctx, roomID)
	if !ok {
		c.log.Info().Str("room_id", roomID).Str("user_id", userID).Msg("join rejected: room not found")
		c.emitError(connID, ErrRoomNotFound)
		return
	}
	if room.IsFull(userID) {
		c.log.Info().Str("room_id", roomID).Str("user_id", userID).Msg("join rejected: room full")
		c.emitError(connID, ErrRoomFull)
		return
	}

	if previous := room.AddPlayer(userID, connID); previous != "" {
		c.registry.UnbindConnection(previous, room.Id)
	}
	c.registry.BindConnection(connID, room.Id)
	c.transport.Enter(connID, room.Id)

	started := room.Status == internal.StatusWaiting
	room.Status = internal.StatusPlaying
	c.persist.Save(ctx, room)

	c.log.Info().
		Str("room_id", room.Id).
		Str("user_id", userID).
		Int("players", room.PlayerCount()).
		Bool("started", started).
		Msg("player joined")

	c.transport.Broadcast(room.Id, internal.Message[internal.GameStartData]{
		Type: internal.TypeGameStart,
		Data: room.Snapshot(),
	})
	if started {
		c.publish(ctx, events.RoomEvent{
			Type:   events.GameStarted,
			RoomID: room.Id,
			Round:  room.CurrentRound,
			Theme:  room.Theme,
		})
	}
}
