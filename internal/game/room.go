package game

import (
	"strconv"
	"strings"

	"github.com/scythe504/wordclash-backend/internal"
)

// roomIDAttempts bounds how often a fresh code may collide with a resident
// room before the last candidate is used anyway.
const roomIDAttempts = 10

// newRoomID returns a random four digit code, avoiding resident rooms.
func (c *Controller) newRoomID() string {
	var id string
	for range roomIDAttempts {
		id = strconv.Itoa(1000 + c.rng.IntN(9000))
		if !c.registry.Has(id) {
			return id
		}
	}
	c.log.Warn().Str("room_id", id).Msg("room code collides with a resident room")
	return id
}

// userOrAnon gives connections that did not name themselves a stable id.
func userOrAnon(userID, connID string) string {
	if userID = strings.TrimSpace(userID); userID != "" {
		return userID
	}
	return "anon_" + connID
}

func (c *Controller) clampRounds(requested int) int {
	switch {
	case requested <= 0:
		return c.defaultRounds
	case requested > internal.MaxRounds:
		return internal.MaxRounds
	default:
		return requested
	}
}
