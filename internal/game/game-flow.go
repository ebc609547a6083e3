package game

import (
	"context"
	"maps"

	"github.com/scythe504/wordclash-backend/internal"
	"github.com/scythe504/wordclash-backend/internal/events"
)

const (
	msgRoomClosed           = "Room closed."
	msgOpponentDisconnected = "Opponent disconnected. Room closed."
)

func (c *Controller) advanceRound(ctx context.Context, room *internal.Room) {
	room.CurrentRound++
	room.StartRound(c.rounds.NewRound(ctx))
	c.persist.Save(ctx, room)

	c.log.Info().
		Str("room_id", room.Id).
		Int("round", room.CurrentRound).
		Int("total_rounds", room.TotalRounds).
		Str("theme", room.Theme).
		Msg("round advanced")

	c.transport.Broadcast(room.Id, internal.Message[internal.GameStartData]{
		Type: internal.TypeGameStart,
		Data: room.Snapshot(),
	})
	c.publish(ctx, events.RoomEvent{
		Type:   events.RoundAdvanced,
		RoomID: room.Id,
		Round:  room.CurrentRound,
		Scores: maps.Clone(room.Scores),
		Theme:  room.Theme,
	})
}

func (c *Controller) handleLeaveGame(ctx context.Context, connID string, data internal.LeaveGameData) {
	room, ok := c.registry.Get(string(data.RoomID))
	if !ok {
		c.log.Debug().Str("room_id", string(data.RoomID)).Str("conn_id", connID).Msg("leave for unknown room")
		return
	}
	c.log.Info().Str("room_id", room.Id).Str("conn_id", connID).Msg("player left")
	c.cleanup(ctx, room, "left")
}

// handleDisconnect closes rooms abandoned by their creator before anyone
// joined, and rooms whose game loses a player.
func (c *Controller) handleDisconnect(ctx context.Context, connID string) {
	for _, roomID := range c.registry.RoomsForConnection(connID) {
		room, ok := c.registry.Get(roomID)
		if !ok {
			continue
		}
		switch {
		case room.Status == internal.StatusWaiting && room.CreatorConnection == connID:
			c.log.Info().Str("room_id", roomID).Msg("creator disconnected before anyone joined")
			c.cleanup(ctx, room, "abandoned")
		case room.Status == internal.StatusPlaying && room.HasConnection(connID):
			c.log.Info().Str("room_id", roomID).Str("conn_id", connID).Msg("player disconnected mid-game")
			c.transport.Broadcast(roomID, internal.Message[internal.PlayerLeftData]{
				Type: internal.TypePlayerLeft,
				Data: internal.PlayerLeftData{Msg: msgOpponentDisconnected},
			})
			c.cleanup(ctx, room, "disconnected")
		}
	}
	c.registry.ForgetConnection(connID)
}

// cleanup tells the room it is closed and forgets it everywhere. A failed
// durable delete does not keep the room resident.
func (c *Controller) cleanup(ctx context.Context, room *internal.Room, reason string) {
	c.transport.Broadcast(room.Id, internal.Message[internal.PlayerLeftData]{
		Type: internal.TypePlayerLeft,
		Data: internal.PlayerLeftData{Msg: msgRoomClosed},
	})
	c.persist.Delete(ctx, room.Id)
	c.registry.Delete(room.Id)
	c.transport.Dissolve(room.Id)

	c.log.Info().Str("room_id", room.Id).Str("reason", reason).Msg("room closed")
	c.publish(ctx, events.RoomEvent{
		Type:   events.RoomClosed,
		RoomID: room.Id,
		Round:  room.CurrentRound,
		Reason: reason,
	})
}
