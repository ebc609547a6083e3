package game

import (
	"context"
	"maps"

	"github.com/scythe504/wordclash-backend/internal"
	"github.com/scythe504/wordclash-backend/internal/events"
)

// finishGame announces the winner of the final round and closes the room.
func (c *Controller) finishGame(ctx context.Context, room *internal.Room) {
	winner := room.Winner()

	c.log.Info().
		Str("room_id", room.Id).
		Str("winner", winner).
		Interface("scores", room.Scores).
		Msg("game over")

	c.transport.Broadcast(room.Id, internal.Message[internal.GameOverData]{
		Type: internal.TypeGameOver,
		Data: internal.GameOverData{Winner: winner},
	})
	c.publish(ctx, events.RoomEvent{
		Type:   events.GameOver,
		RoomID: room.Id,
		Round:  room.CurrentRound,
		Scores: maps.Clone(room.Scores),
		Winner: winner,
	})
	c.cleanup(ctx, room, "finished")
}
