package game

import (
	"context"
	"maps"
	"strings"

	"github.com/scythe504/wordclash-backend/internal"
)

// handleWordFound credits the first valid claim of a word. Claims for words
// outside the round, or already found, change nothing.
func (c *Controller) handleWordFound(ctx context.Context, connID string, data internal.WordFoundData) {
	roomID := string(data.RoomID)
	room, ok := c.registry.Get(roomID)
	if !ok {
		c.log.Debug().Str("room_id", roomID).Msg("word claimed in unknown room")
		return
	}

	word := strings.ToUpper(strings.TrimSpace(data.Word))
	finder := userOrAnon(data.UserID, connID)

	entry, ok := room.MarkFound(word, finder)
	if !ok {
		c.log.Debug().Str("room_id", roomID).Str("word", word).Msg("claim ignored")
		return
	}
	c.persist.Save(ctx, room)

	c.log.Info().
		Str("room_id", roomID).
		Str("word", word).
		Str("finder", finder).
		Int("found", len(room.FoundWords)).
		Int("total", len(room.Words)).
		Msg("word found")

	c.transport.Broadcast(roomID, internal.Message[internal.UpdateBoardData]{
		Type: internal.TypeUpdateBoard,
		Data: internal.UpdateBoardData{
			Word:    entry.Word,
			Finder:  entry.Finder,
			Indices: entry.Indices,
			Scores:  maps.Clone(room.Scores),
		},
	})

	if !room.IsRoundComplete() {
		return
	}
	if room.IsFinalRound() {
		c.finishGame(ctx, room)
		return
	}
	c.advanceRound(ctx, room)
}
